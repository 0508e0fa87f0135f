// Package topics provides the fixed topic pools used by the random flow.
package topics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"topicwheel/internal/domain"
)

// ErrNotAvailable is returned by Draw when every topic of the pool was already used.
var ErrNotAvailable = errors.New("topics: pool exhausted")

// Topic is one catalog entry.
type Topic struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	AcceptanceCriteria string `json:"acceptance_criteria"`
}

// Render returns the text stored as the participant's topic: title, description
// and acceptance criteria separated by blank lines.
func (t Topic) Render() string {
	return t.Title + "\n\n" + t.Description + "\n\nAcceptance criteria: " + t.AcceptanceCriteria
}

// Catalog reads pool files from a directory. Pools are re-read on every call.
type Catalog struct {
	dir  string
	intn func(n int) int
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithIntn replaces the uniform random source, intn(n) must return a value in [0, n).
func WithIntn(intn func(n int) int) Option {
	return func(c *Catalog) { c.intn = intn }
}

// NewCatalog creates a Catalog over dir.
func NewCatalog(dir string, opts ...Option) *Catalog {
	c := &Catalog{dir: dir, intn: rand.IntN}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FilePath returns the file backing pool.
func (c *Catalog) FilePath(pool domain.Pool) string {
	return filepath.Join(c.dir, "topics_"+pool.String()+".json")
}

// Load reads and validates every topic of pool.
func (c *Catalog) Load(ctx context.Context, pool domain.Pool) ([]Topic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := c.FilePath(pool)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topics: read %s: %w", path, err)
	}

	var list []Topic
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("topics: decode %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(list))
	for i, t := range list {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return nil, fmt.Errorf("topics: %s: entry %d has no id", path, i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("topics: %s: duplicate id %q", path, id)
		}
		seen[id] = struct{}{}
	}
	return list, nil
}

// Draw picks one topic of the level's pool uniformly among those whose id is not
// in excluded. It does not record anything; the caller owns the ledger.
func (c *Catalog) Draw(ctx context.Context, level domain.Level, excluded []string) (Topic, error) {
	list, err := c.Load(ctx, level.Pool())
	if err != nil {
		return Topic{}, err
	}

	available := make([]Topic, 0, len(list))
	for _, t := range list {
		if !slices.Contains(excluded, t.ID) {
			available = append(available, t)
		}
	}
	if len(available) == 0 {
		return Topic{}, ErrNotAvailable
	}
	return available[c.intn(len(available))], nil
}

// Ping checks that every pool file is present.
func (c *Catalog) Ping(ctx context.Context) error {
	for _, p := range domain.Pools() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := os.Stat(c.FilePath(p)); err != nil {
			return fmt.Errorf("topics: %w", err)
		}
	}
	return nil
}
