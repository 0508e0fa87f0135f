package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"topicwheel/internal/domain"
	"topicwheel/internal/topics"
)

// memStore keeps the aggregate serialized, so every Load returns a fresh copy
// the way a real store does.
type memStore struct {
	data    []byte
	saves   int
	saveErr error
}

func (m *memStore) Load(ctx context.Context) (*domain.State, error) {
	if m.data == nil {
		return domain.NewState(), nil
	}
	var st domain.State
	if err := json.Unmarshal(m.data, &st); err != nil {
		return nil, err
	}
	st.Normalize()
	return &st, nil
}

func (m *memStore) Save(ctx context.Context, st *domain.State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

func (m *memStore) state(t *testing.T) *domain.State {
	t.Helper()
	st, err := m.Load(context.Background())
	require.NoError(t, err)
	return st
}

// fakePool serves a fixed list per pool and always takes the first available topic.
type fakePool struct {
	byPool map[domain.Pool][]topics.Topic
	err    error
}

func (p *fakePool) Draw(_ context.Context, level domain.Level, excluded []string) (topics.Topic, error) {
	if p.err != nil {
		return topics.Topic{}, p.err
	}
	for _, t := range p.byPool[level.Pool()] {
		used := false
		for _, id := range excluded {
			if id == t.ID {
				used = true
			}
		}
		if !used {
			return t, nil
		}
	}
	return topics.Topic{}, topics.ErrNotAvailable
}

func newFakePool() *fakePool {
	return &fakePool{byPool: map[domain.Pool][]topics.Topic{
		domain.PoolEasy: {
			{ID: "e1", Title: "Todo", Description: "Todo app", AcceptanceCriteria: "CRUD"},
		},
		domain.PoolHard: {
			{ID: "h1", Title: "Chat", Description: "Realtime chat", AcceptanceCriteria: "Rooms"},
			{ID: "h2", Title: "Wiki", Description: "Team wiki", AcceptanceCriteria: "History"},
		},
	}}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *memStore, *fakePool, *clock) {
	t.Helper()
	store := &memStore{}
	pool := newFakePool()
	clk := &clock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	svc := &Service{
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		store: store,
		pool:  pool,
		now:   clk.now,
	}
	return svc, store, pool, clk
}

func register(t *testing.T, svc *Service, name string, level domain.Level) *domain.User {
	t.Helper()
	res, err := svc.Register(context.Background(), RegisterInput{Name: name, Level: level})
	require.NoError(t, err)
	return res.User
}

func requireReason(t *testing.T, err error, want domain.ConflictReason) {
	t.Helper()
	require.Error(t, err)
	reason, ok := domain.ConflictReasonOf(err)
	require.True(t, ok, "expected ConflictError, got %T: %v", err, err)
	require.Equal(t, want, reason)
}

var errDisk = errors.New("disk unavailable")

const ideaText = "Build a task tracker with calendar sync and reminders for teams"
