package moderation

import (
	"context"
	"sort"

	"topicwheel/internal/domain"
)

// ListSubmissions returns submissions with the given status, newest first.
// An empty status lists all of them.
func (s *Service) ListSubmissions(ctx context.Context, actor string, status domain.SubmissionStatus) ([]*domain.Submission, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return nil, err
	}
	if status != "" && !status.IsValid() {
		return nil, domain.NewValidationError("status", "must be 'pending', 'approved' or 'rejected'")
	}

	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.FilterSubmissions(status), nil
}

// ListPending returns the moderation queue, newest first.
func (s *Service) ListPending(ctx context.Context, actor string) ([]*domain.Submission, error) {
	return s.ListSubmissions(ctx, actor, domain.SubmissionPending)
}

// UserRow is one line of the participant overview.
type UserRow struct {
	User     *domain.User
	Phase    domain.Phase
	DaysLeft *int
}

// ListUsers returns every participant, most recently started first.
// Participants without a started clock come last, ordered by key.
func (s *Service) ListUsers(ctx context.Context, actor string) ([]UserRow, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return nil, err
	}

	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rows := make([]UserRow, 0, len(st.Users))
	for key, u := range st.Users {
		rows = append(rows, UserRow{
			User:     u,
			Phase:    st.PhaseOf(key),
			DaysLeft: u.DaysLeft(now),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].User, rows[j].User
		switch {
		case a.ChosenAt != nil && b.ChosenAt != nil:
			if !a.ChosenAt.Equal(*b.ChosenAt) {
				return a.ChosenAt.After(*b.ChosenAt)
			}
		case a.ChosenAt != nil:
			return true
		case b.ChosenAt != nil:
			return false
		}
		return a.Key() < b.Key()
	})

	return rows, nil
}
