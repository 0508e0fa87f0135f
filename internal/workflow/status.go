package workflow

import (
	"context"
	"log/slog"

	"topicwheel/internal/domain"
)

// Status is the participant-facing summary of the workflow state.
type Status string

const (
	StatusSelecting            Status = "selecting"
	StatusPending              Status = "pending"
	StatusRejected             Status = "rejected"
	StatusTopicAssigned        Status = "topic_assigned"
	StatusApprovedWithoutTopic Status = "approved_without_topic"
)

// StatusView is returned by Status.
type StatusView struct {
	Status        Status
	Phase         domain.Phase
	User          *domain.User
	DaysRemaining *int
	AdminComment  string
	Submission    *domain.Submission
	CanResubmit   bool
}

// Status reports the participant's state.
//
// It is a side-effecting read: the first call after an approval starts the
// deadline clock (chosen = now, deadline = now + 14 days), because the period
// runs from the moment the participant sees the approved topic.
func (s *Service) Status(ctx context.Context, name string) (*StatusView, error) {
	if err := toError(validateName(name, nil)); err != nil {
		return nil, err
	}

	st, u, err := s.loadUser(ctx, name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if u.StartClock(now) {
		if err := s.save(ctx, st); err != nil {
			return nil, err
		}
		s.log.InfoContext(ctx, "deadline clock started",
			slog.String("user", u.Key()),
			slog.Time("deadline_at", *u.DeadlineAt),
		)
	}

	view := &StatusView{
		Phase:         st.PhaseOf(u.Key()),
		User:          u,
		DaysRemaining: u.DaysLeft(now),
	}
	latest := st.LatestSubmission(u.Key())

	if u.HasTopic() {
		view.Status = StatusTopicAssigned
		if latest != nil && latest.Status == domain.SubmissionApproved {
			view.AdminComment = latest.AdminComment
			view.Submission = latest
		}
		return view, nil
	}

	if pending := st.PendingSubmission(u.Key()); pending != nil {
		view.Status = StatusPending
		view.Submission = pending
		return view, nil
	}

	if latest != nil {
		switch latest.Status {
		case domain.SubmissionRejected:
			view.Status = StatusRejected
			view.Submission = latest
			view.AdminComment = latest.AdminComment
			view.CanResubmit = true
			return view, nil
		case domain.SubmissionApproved:
			view.Status = StatusApprovedWithoutTopic
			view.Submission = latest
			view.AdminComment = latest.AdminComment
			return view, nil
		}
	}

	view.Status = StatusSelecting
	return view, nil
}
