package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Auth    AuthConfig
	CORS    CORSConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr              string        `env:"HTTP_ADDR"                env-default:":3000"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"5s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT"    env-default:"5s"`
}

// StorageConfig selects where the aggregate and the topic catalogs live.
type StorageConfig struct {
	Driver    string `env:"STORAGE_DRIVER" env-default:"file"`
	DataDir   string `env:"DATA_DIR"       env-default:"./data"`
	StateFile string `env:"STATE_FILE"     env-default:"state.json"`
	DSN       string `env:"DATABASE_DSN"`
	TopicsDir string `env:"TOPICS_DIR"`
}

const (
	DriverFile = "file"
	DriverSQL  = "sql"
)

// StatePath returns the aggregate file path. A relative STATE_FILE is resolved
// against DATA_DIR.
func (s StorageConfig) StatePath() string {
	if filepath.IsAbs(s.StateFile) {
		return s.StateFile
	}
	return filepath.Join(s.DataDir, s.StateFile)
}

// TopicsPath returns the directory holding topics_easy.json and topics_hard.json.
func (s StorageConfig) TopicsPath() string {
	if s.TopicsDir != "" {
		return s.TopicsDir
	}
	return s.DataDir
}

// AuthConfig holds the admin allowlist and session token settings.
type AuthConfig struct {
	AdminAllowlist string        `env:"ADMIN_ALLOWLIST"`
	JWTSecret      string        `env:"AUTH_JWT_SECRET"`
	JWTIssuer      string        `env:"AUTH_JWT_ISSUER" env-default:"topicwheel"`
	TokenTTL       time.Duration `env:"AUTH_TOKEN_TTL"  env-default:"168h"`
}

// TokensEnabled reports whether login issues session tokens.
func (a AuthConfig) TokensEnabled() bool { return a.JWTSecret != "" }

// CORSConfig holds CORS settings. An empty origin list disables CORS.
type CORSConfig struct {
	AllowedOrigins   string `env:"CORS_ALLOWED_ORIGINS"`
	AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
}

// Origins returns the trimmed, non-empty allowed origins.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}
