// Package moderation implements the administrator side: reviewing submitted
// ideas and listing participants.
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"topicwheel/internal/domain"
)

type stateStore interface {
	Load(ctx context.Context) (*domain.State, error)
	Save(ctx context.Context, st *domain.State) error
}

// AdminChecker decides whether a participant name carries administrator rights.
type AdminChecker interface {
	IsAdmin(name string) bool
}

// Service implements the Moderation Engine.
type Service struct {
	log    *slog.Logger
	store  stateStore
	admins AdminChecker
	now    func() time.Time
}

// NewService creates a new moderation service.
func NewService(logger *slog.Logger, store stateStore, admins AdminChecker) *Service {
	return &Service{
		log:    logger.With("service", "moderation"),
		store:  store,
		admins: admins,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// authorize rejects actors that are not on the admin allowlist.
func (s *Service) authorize(ctx context.Context, actor string) error {
	if domain.NormalizeName(actor) == "" {
		return fmt.Errorf("admin name required: %w", domain.ErrUnauthorized)
	}
	if !s.admins.IsAdmin(actor) {
		s.log.WarnContext(ctx, "admin access denied", slog.String("actor", domain.NormalizeName(actor)))
		return fmt.Errorf("%q is not an administrator: %w", domain.NormalizeName(actor), domain.ErrForbidden)
	}
	return nil
}

func (s *Service) load(ctx context.Context) (*domain.State, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return st, nil
}
