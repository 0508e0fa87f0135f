package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"topicwheel/internal/domain"
)

// ApproveInput holds the administrator's decision details.
type ApproveInput struct {
	// TopicText overrides the submitted idea when non-blank.
	TopicText string
	Comment   string
}

// Decision is returned by Approve and Reject.
type Decision struct {
	Submission *domain.Submission
	Owner      *domain.User
}

func (s *Service) loadSubmission(ctx context.Context, id string) (*domain.State, *domain.Submission, error) {
	st, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	sub := st.Submissions[id]
	if sub == nil {
		return nil, nil, fmt.Errorf("submission %q: %w", id, domain.ErrNotFound)
	}
	return st, sub, nil
}

// Approve resolves a pending submission and assigns the final topic to its owner.
// The submission and the owner are saved together. The owner's deadline clock is
// left unset; it starts when the owner first checks their status.
func (s *Service) Approve(ctx context.Context, actor, id string, input ApproveInput) (*Decision, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return nil, err
	}

	st, sub, err := s.loadSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sub.IsPending() {
		return nil, domain.NewConflict(domain.ReasonSubmissionResolved,
			"submission already resolved with status '"+sub.Status.String()+"'")
	}

	owner := st.Users[sub.Owner]
	if owner == nil {
		return nil, fmt.Errorf("owner %q of submission %q: %w", sub.Owner, id, domain.ErrNotFound)
	}

	final := sub.FinalText(input.TopicText)
	if err := owner.AssignApprovedTopic(final, sub.Text); err != nil {
		return nil, err
	}
	if err := sub.Approve(final, input.Comment, s.now()); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	s.log.InfoContext(ctx, "submission approved",
		slog.String("actor", domain.NormalizeName(actor)),
		slog.String("submission_id", sub.ID),
		slog.String("user", owner.Key()),
		slog.Bool("text_overridden", final != sub.Text),
	)

	return &Decision{Submission: sub, Owner: owner}, nil
}

// Reject resolves a pending submission as rejected. The comment is mandatory and
// the owner keeps the own flow, free to submit a new idea.
func (s *Service) Reject(ctx context.Context, actor, id, comment string) (*Decision, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return nil, err
	}

	st, sub, err := s.loadSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sub.Reject(comment, s.now()); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	s.log.InfoContext(ctx, "submission rejected",
		slog.String("actor", domain.NormalizeName(actor)),
		slog.String("submission_id", sub.ID),
		slog.String("user", sub.Owner),
	)

	return &Decision{Submission: sub, Owner: st.Users[sub.Owner]}, nil
}
