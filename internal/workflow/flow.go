package workflow

import (
	"context"
	"log/slog"

	"topicwheel/internal/domain"
)

// ChooseFlow commits the participant to a flow. It never assigns a topic.
func (s *Service) ChooseFlow(ctx context.Context, input ChooseFlowInput) (*domain.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	st, u, err := s.loadUser(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	if u.Flow == input.Flow {
		return u, nil
	}
	if err := u.ChooseFlow(input.Flow); err != nil {
		return nil, err
	}
	if err := s.save(ctx, st); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "flow chosen",
		slog.String("user", u.Key()),
		slog.String("flow", u.Flow.String()),
	)

	return u, nil
}
