package domain

import (
	"strings"
	"time"
)

// User is one participant. Key() is the identity; it is derived from Name.
type User struct {
	Name         string     `json:"name"`
	Level        Level      `json:"level"`
	Flow         Flow       `json:"flow,omitempty"`
	Topic        string     `json:"topic,omitempty"`
	OriginalIdea string     `json:"originalIdea,omitempty"`
	ChosenAt     *time.Time `json:"chosenAt,omitempty"`
	DeadlineAt   *time.Time `json:"deadlineAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	GitLink      string     `json:"gitLink,omitempty"`

	// LegacyName carries the display name of documents that stored it as "fio".
	LegacyName string `json:"fio,omitempty"`
}

// NewUser creates a registered user with no flow and no topic.
func NewUser(name string, level Level) *User {
	return &User{
		Name:  strings.TrimSpace(name),
		Level: level,
	}
}

// Key returns the normalized lookup key of the user.
func (u *User) Key() string { return NormalizeName(u.Name) }

// HasTopic reports whether a topic has been finalized.
func (u *User) HasTopic() bool { return u.Topic != "" }

// IsCompleted reports whether the user has recorded completion.
func (u *User) IsCompleted() bool { return u.CompletedAt != nil }

// ClockStarted reports whether chosen/deadline timestamps are set.
func (u *User) ClockStarted() bool { return u.ChosenAt != nil && u.DeadlineAt != nil }

// ChooseFlow commits the user to f. Re-choosing the same flow is a no-op.
func (u *User) ChooseFlow(f Flow) error {
	if !f.IsValid() {
		return NewValidationError("flow", "must be 'random' or 'own'")
	}
	if u.Flow != "" && u.Flow != f {
		return NewConflict(ReasonFlowCommitted, "flow already committed to '"+u.Flow.String()+"'")
	}
	u.Flow = f
	return nil
}

// CanProposeIdea checks the user-side preconditions of submitting an idea.
func (u *User) CanProposeIdea() error {
	if u.HasTopic() {
		return NewConflict(ReasonTopicAssigned, "topic already assigned")
	}
	if u.Flow == FlowRandom {
		return NewConflict(ReasonFlowCommitted, "random flow already chosen, an own idea cannot be proposed")
	}
	return nil
}

// CanDraw checks the preconditions of drawing a random topic.
func (u *User) CanDraw() error {
	if u.Flow == FlowOwn {
		return NewConflict(ReasonFlowCommitted, "own flow already chosen, a random topic cannot be drawn")
	}
	if u.HasTopic() {
		return NewConflict(ReasonTopicAssigned, "topic already assigned")
	}
	return nil
}

// AssignDrawnTopic finalizes a randomly drawn topic. The clock starts immediately.
func (u *User) AssignDrawnTopic(text string, now time.Time) error {
	if err := u.CanDraw(); err != nil {
		return err
	}
	u.Flow = FlowRandom
	u.Topic = text
	u.StartClock(now)
	return nil
}

// AssignApprovedTopic finalizes a moderated idea. The clock is left unset until
// the participant first observes the assignment (see StartClock).
func (u *User) AssignApprovedTopic(text, originalIdea string) error {
	if u.HasTopic() {
		return NewConflict(ReasonTopicAssigned, "user already has a topic")
	}
	u.Flow = FlowOwn
	u.Topic = text
	u.OriginalIdea = originalIdea
	return nil
}

// StartClock sets chosen/deadline timestamps once, when a topic exists and the
// clock has not started yet. It reports whether anything changed.
func (u *User) StartClock(now time.Time) bool {
	if !u.HasTopic() || u.ClockStarted() {
		return false
	}
	chosen := now
	deadline := now.Add(DeadlineWindow)
	u.ChosenAt = &chosen
	u.DeadlineAt = &deadline
	return true
}

// Complete records completion with an optional evidence link.
func (u *User) Complete(now time.Time, gitLink string) error {
	if !u.HasTopic() {
		return NewConflict(ReasonNoTopic, "no topic assigned")
	}
	if u.IsCompleted() {
		return NewConflict(ReasonAlreadyCompleted, "task already completed")
	}
	completed := now
	u.CompletedAt = &completed
	u.GitLink = strings.TrimSpace(gitLink)
	return nil
}

// DaysLeft returns the remaining days or nil when no deadline is set.
func (u *User) DaysLeft(now time.Time) *int {
	if u.DeadlineAt == nil {
		return nil
	}
	d := DaysRemaining(*u.DeadlineAt, now)
	return &d
}
