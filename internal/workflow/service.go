// Package workflow implements the participant side of the topic workflow:
// registration, flow choice, idea submission, random draw, status and completion.
//
// Every operation is one load/modify/save cycle against the aggregate store.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"topicwheel/internal/domain"
	"topicwheel/internal/topics"
)

// stateStore defines the aggregate store needed by the workflow.
type stateStore interface {
	Load(ctx context.Context) (*domain.State, error)
	Save(ctx context.Context, st *domain.State) error
}

// topicPool defines the topic provider needed by the random flow.
type topicPool interface {
	Draw(ctx context.Context, level domain.Level, excluded []string) (topics.Topic, error)
}

// Service implements the User Workflow Engine.
type Service struct {
	log   *slog.Logger
	store stateStore
	pool  topicPool
	now   func() time.Time
}

// NewService creates a new workflow service.
func NewService(logger *slog.Logger, store stateStore, pool topicPool) *Service {
	return &Service{
		log:   logger.With("service", "workflow"),
		store: store,
		pool:  pool,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// loadUser loads the aggregate and the user registered under name.
func (s *Service) loadUser(ctx context.Context, name string) (*domain.State, *domain.User, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load state: %w", err)
	}
	u := st.User(name)
	if u == nil {
		return nil, nil, fmt.Errorf("user %q: %w", domain.NormalizeName(name), domain.ErrNotFound)
	}
	return st, u, nil
}

func (s *Service) save(ctx context.Context, st *domain.State) error {
	if err := s.store.Save(ctx, st); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
