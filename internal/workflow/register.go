package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"topicwheel/internal/domain"
)

// RegisterResult is returned by Register.
type RegisterResult struct {
	User    *domain.User
	Created bool
}

// Register creates the participant or returns the existing one unchanged.
// On a repeat call the stored level wins over the requested one.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	if existing := st.User(input.Name); existing != nil {
		return &RegisterResult{User: existing}, nil
	}

	u := domain.NewUser(input.Name, input.Level)
	st.PutUser(u)
	if err := s.save(ctx, st); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user registered",
		slog.String("user", u.Key()),
		slog.String("level", u.Level.String()),
	)

	return &RegisterResult{User: u, Created: true}, nil
}
