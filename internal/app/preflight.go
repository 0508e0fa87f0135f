package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"topicwheel/internal/auth"
	"topicwheel/internal/config"
	"topicwheel/internal/domain"
	"topicwheel/internal/topics"
)

// Severity grades one preflight finding.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "ok"
	}
}

// Finding is one line of the preflight report.
type Finding struct {
	Check    string
	Severity Severity
	Detail   string
}

// Report is the result of Preflight.
type Report []Finding

// Failed reports whether any finding is an error.
func (r Report) Failed() bool {
	for _, f := range r {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Preflight verifies configuration, data files and write permissions without
// modifying anything.
func Preflight(ctx context.Context, cfg *config.Config) Report {
	var r Report
	add := func(check string, sev Severity, format string, args ...any) {
		r = append(r, Finding{Check: check, Severity: sev, Detail: fmt.Sprintf(format, args...)})
	}

	if admins := auth.ParseAllowlist(cfg.Auth.AdminAllowlist); len(admins) == 0 {
		add("admin allowlist", SeverityError, "ADMIN_ALLOWLIST is not set")
	} else {
		add("admin allowlist", SeverityOK, "%d administrator(s)", len(admins))
	}

	if cfg.Auth.TokensEnabled() {
		add("session tokens", SeverityOK, "enabled, ttl %s", cfg.Auth.TokenTTL)
	} else {
		add("session tokens", SeverityWarning, "AUTH_JWT_SECRET is not set, participants identify by name only")
	}

	switch cfg.Storage.Driver {
	case config.DriverSQL:
		checkDatabase(ctx, cfg.Storage, add)
	default:
		checkStateFile(cfg.Storage, add)
	}

	catalog := topics.NewCatalog(cfg.Storage.TopicsPath())
	for _, pool := range domain.Pools() {
		check := "topics " + pool.String()
		list, err := catalog.Load(ctx, pool)
		switch {
		case err != nil:
			add(check, SeverityError, "%v", err)
		case len(list) == 0:
			add(check, SeverityWarning, "%s has no topics", catalog.FilePath(pool))
		default:
			add(check, SeverityOK, "%s: %d topics", catalog.FilePath(pool), len(list))
		}
	}

	return r
}

func checkStateFile(cfg config.StorageConfig, add func(string, Severity, string, ...any)) {
	path := cfg.StatePath()
	if info, err := os.Stat(path); err != nil {
		add("state file", SeverityError, "%s: %v (run wheelctl init)", path, err)
	} else {
		add("state file", SeverityOK, "%s: %.2f KB", path, float64(info.Size())/1024)
	}

	if err := probeWritable(cfg.DataDir); err != nil {
		add("data dir", SeverityError, "%s is not writable: %v", cfg.DataDir, err)
	} else {
		add("data dir", SeverityOK, "%s is writable", cfg.DataDir)
	}
}

func checkDatabase(ctx context.Context, cfg config.StorageConfig, add func(string, Severity, string, ...any)) {
	store, cleanup, err := OpenStore(ctx, cfg)
	if err != nil {
		add("database", SeverityError, "%v", err)
		return
	}
	defer cleanup()

	if err := store.Ping(ctx); err != nil {
		add("database", SeverityError, "ping: %v", err)
		return
	}
	add("database", SeverityOK, "reachable, schema migrated")
}

func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".wheelctl-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// InitData creates the data directory and an empty aggregate when none exists.
// It returns human-readable notes on what was done.
func InitData(ctx context.Context, cfg *config.Config) ([]string, error) {
	var notes []string

	if cfg.Storage.Driver == config.DriverFile {
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		if _, err := os.Stat(cfg.Storage.StatePath()); err == nil {
			notes = append(notes, cfg.Storage.StatePath()+" already exists")
		} else if errors.Is(err, fs.ErrNotExist) {
			notes = append(notes, "created "+cfg.Storage.StatePath())
		} else {
			return nil, fmt.Errorf("stat state file: %w", err)
		}
	}

	store, cleanup, err := OpenStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// Load creates the empty aggregate in the file store.
	if _, err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("initialize state: %w", err)
	}
	if cfg.Storage.Driver == config.DriverSQL {
		notes = append(notes, "database schema is up to date")
	}

	catalog := topics.NewCatalog(cfg.Storage.TopicsPath())
	for _, pool := range domain.Pools() {
		if _, err := os.Stat(catalog.FilePath(pool)); err != nil {
			notes = append(notes, "warning: "+catalog.FilePath(pool)+" not found")
		}
	}

	return notes, nil
}
