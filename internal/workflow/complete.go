package workflow

import (
	"context"
	"log/slog"

	"topicwheel/internal/domain"
)

// Complete records that the participant finished. The evidence link is optional
// and stored verbatim after trimming.
func (s *Service) Complete(ctx context.Context, input CompleteInput) (*domain.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	st, u, err := s.loadUser(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if err := u.Complete(s.now(), input.GitLink); err != nil {
		return nil, err
	}
	if err := s.save(ctx, st); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "task completed",
		slog.String("user", u.Key()),
		slog.Bool("has_link", u.GitLink != ""),
	)

	return u, nil
}
