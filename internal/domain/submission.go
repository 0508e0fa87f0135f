package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinIdeaLength is the minimum length of a proposed idea after trimming, in characters.
const MinIdeaLength = 20

// Submission is a self-proposed idea waiting for, or carrying, an administrator decision.
type Submission struct {
	ID                string           `json:"id"`
	Owner             string           `json:"owner"`
	OwnerName         string           `json:"ownerName"`
	Text              string           `json:"text"`
	Status            SubmissionStatus `json:"status"`
	AdminComment      string           `json:"adminComment,omitempty"`
	ApprovedTopicText string           `json:"approvedTopicText,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`

	// LegacyName is the owner's display name in documents that had no owner key.
	LegacyName string `json:"fio,omitempty"`
}

// NewSubmission creates a pending submission for u.
func NewSubmission(u *User, text string, now time.Time) *Submission {
	return &Submission{
		ID:        uuid.NewString(),
		Owner:     u.Key(),
		OwnerName: u.Name,
		Text:      strings.TrimSpace(text),
		Status:    SubmissionPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ValidateIdea checks the idea text of a new submission.
func ValidateIdea(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return NewValidationError("idea", "required")
	}
	if len([]rune(text)) < MinIdeaLength {
		return NewValidationError("idea", "too short: at least 20 characters")
	}
	return nil
}

// IsPending reports whether the submission awaits moderation.
func (s *Submission) IsPending() bool { return s.Status == SubmissionPending }

func (s *Submission) requirePending() error {
	if !s.IsPending() {
		return NewConflict(ReasonSubmissionResolved, "submission already resolved with status '"+s.Status.String()+"'")
	}
	return nil
}

// FinalText resolves the approved topic text: the override when non-blank, else the original idea.
func (s *Submission) FinalText(override string) string {
	if t := strings.TrimSpace(override); t != "" {
		return t
	}
	return s.Text
}

// Approve moves a pending submission to approved.
func (s *Submission) Approve(finalText, comment string, now time.Time) error {
	if err := s.requirePending(); err != nil {
		return err
	}
	s.Status = SubmissionApproved
	s.ApprovedTopicText = finalText
	s.AdminComment = strings.TrimSpace(comment)
	s.UpdatedAt = now
	return nil
}

// Reject moves a pending submission to rejected. The comment is mandatory.
func (s *Submission) Reject(comment string, now time.Time) error {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return NewValidationError("adminComment", "required when rejecting")
	}
	if err := s.requirePending(); err != nil {
		return err
	}
	s.Status = SubmissionRejected
	s.AdminComment = comment
	s.UpdatedAt = now
	return nil
}
