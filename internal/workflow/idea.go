package workflow

import (
	"context"
	"log/slog"

	"topicwheel/internal/domain"
)

// IdeaResult is returned by SubmitIdea.
type IdeaResult struct {
	User       *domain.User
	Submission *domain.Submission
}

// SubmitIdea files a new pending submission and commits the user to the own flow.
// A rejected earlier submission does not block a new one; a pending one does.
// The topic is not set here, only an approval does that.
func (s *Service) SubmitIdea(ctx context.Context, input SubmitIdeaInput) (*IdeaResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	st, u, err := s.loadUser(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	if err := u.CanProposeIdea(); err != nil {
		return nil, err
	}
	if err := domain.ValidateIdea(input.Idea); err != nil {
		return nil, err
	}
	if pending := st.PendingSubmission(u.Key()); pending != nil {
		return nil, domain.NewConflict(domain.ReasonSubmissionPending,
			"an idea is already awaiting moderation, wait for the administrator's decision")
	}

	if err := u.ChooseFlow(domain.FlowOwn); err != nil {
		return nil, err
	}
	sub := domain.NewSubmission(u, input.Idea, s.now())
	st.Submissions[sub.ID] = sub

	if err := s.save(ctx, st); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "idea submitted",
		slog.String("user", u.Key()),
		slog.String("submission_id", sub.ID),
	)

	return &IdeaResult{User: u, Submission: sub}, nil
}
