package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"topicwheel/internal/domain"
	"topicwheel/internal/topics"
)

// DrawResult is returned by DrawTopic.
type DrawResult struct {
	User    *domain.User
	TopicID string
	Topic   string
}

// DrawTopic assigns an unused topic from the user's pool. The topic, the clock
// and the ledger entry are persisted in the same save.
func (s *Service) DrawTopic(ctx context.Context, name string) (*DrawResult, error) {
	if err := toError(validateName(name, nil)); err != nil {
		return nil, err
	}

	st, u, err := s.loadUser(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := u.CanDraw(); err != nil {
		return nil, err
	}

	pool := u.Level.Pool()
	topic, err := s.pool.Draw(ctx, u.Level, st.Used(pool))
	if errors.Is(err, topics.ErrNotAvailable) {
		s.log.WarnContext(ctx, "topic pool exhausted",
			slog.String("user", u.Key()),
			slog.String("pool", pool.String()),
		)
		return nil, domain.NewConflict(domain.ReasonPoolExhausted,
			"all topics of the pool are used, contact the administrator")
	}
	if err != nil {
		return nil, fmt.Errorf("draw topic: %w", err)
	}

	text := topic.Render()
	if err := u.AssignDrawnTopic(text, s.now()); err != nil {
		return nil, err
	}
	st.MarkUsed(pool, topic.ID)

	if err := s.save(ctx, st); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "topic drawn",
		slog.String("user", u.Key()),
		slog.String("pool", pool.String()),
		slog.String("topic_id", topic.ID),
	)

	return &DrawResult{User: u, TopicID: topic.ID, Topic: text}, nil
}
