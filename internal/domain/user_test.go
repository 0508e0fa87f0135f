package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ivan ivanov", NormalizeName("  Ivan Ivanov\t"))
	assert.Equal(t, "", NormalizeName("   "))
	assert.Equal(t, NormalizeName("ANNA"), NormalizeName("anna "))
}

func TestUser_ChooseFlow(t *testing.T) {
	t.Parallel()

	u := NewUser("Anna", LevelBeginner)
	require.NoError(t, u.ChooseFlow(FlowRandom))
	require.NoError(t, u.ChooseFlow(FlowRandom))

	err := u.ChooseFlow(FlowOwn)
	require.ErrorIs(t, err, ErrConflict)
	reason, ok := ConflictReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, ReasonFlowCommitted, reason)
	assert.Equal(t, FlowRandom, u.Flow)

	err = u.ChooseFlow(Flow("sideways"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUser_AssignDrawnTopic_StartsClock(t *testing.T) {
	t.Parallel()

	u := NewUser("Anna", LevelExperienced)
	require.NoError(t, u.AssignDrawnTopic("Topic", t0))

	assert.Equal(t, FlowRandom, u.Flow)
	require.NotNil(t, u.ChosenAt)
	require.NotNil(t, u.DeadlineAt)
	assert.Equal(t, t0, *u.ChosenAt)
	assert.Equal(t, 14*24*time.Hour, u.DeadlineAt.Sub(*u.ChosenAt))

	err := u.AssignDrawnTopic("Other", t0.Add(time.Hour))
	reason, _ := ConflictReasonOf(err)
	assert.Equal(t, ReasonTopicAssigned, reason)
	assert.Equal(t, "Topic", u.Topic)
}

func TestUser_CanDraw_OwnFlow(t *testing.T) {
	t.Parallel()

	u := NewUser("Ivan", LevelBeginner)
	require.NoError(t, u.ChooseFlow(FlowOwn))

	reason, ok := ConflictReasonOf(u.CanDraw())
	require.True(t, ok)
	assert.Equal(t, ReasonFlowCommitted, reason)
}

func TestUser_AssignApprovedTopic_DefersClock(t *testing.T) {
	t.Parallel()

	u := NewUser("Ivan", LevelBeginner)
	require.NoError(t, u.AssignApprovedTopic("Final", "Original idea"))

	assert.Equal(t, "Final", u.Topic)
	assert.Equal(t, "Original idea", u.OriginalIdea)
	assert.False(t, u.ClockStarted())

	assert.True(t, u.StartClock(t0))
	assert.False(t, u.StartClock(t0.Add(time.Hour)), "clock starts exactly once")
	assert.Equal(t, t0, *u.ChosenAt)
	assert.Equal(t, DeadlineWindow, u.DeadlineAt.Sub(*u.ChosenAt))

	err := u.AssignApprovedTopic("Again", "x")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUser_StartClock_NoTopic(t *testing.T) {
	t.Parallel()

	u := NewUser("Ivan", LevelBeginner)
	assert.False(t, u.StartClock(t0))
	assert.Nil(t, u.ChosenAt)
}

func TestUser_Complete(t *testing.T) {
	t.Parallel()

	u := NewUser("Ivan", LevelBeginner)
	reason, _ := ConflictReasonOf(u.Complete(t0, ""))
	assert.Equal(t, ReasonNoTopic, reason)

	require.NoError(t, u.AssignDrawnTopic("Topic", t0))
	require.NoError(t, u.Complete(t0.Add(time.Hour), "  "))
	assert.Empty(t, u.GitLink)
	require.NotNil(t, u.CompletedAt)

	reason, _ = ConflictReasonOf(u.Complete(t0.Add(2*time.Hour), "https://git.example/x"))
	assert.Equal(t, ReasonAlreadyCompleted, reason)
	assert.Empty(t, u.GitLink)
}

func TestDaysRemaining(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"exactly 14 days", t0.Add(DeadlineWindow), 14},
		{"partial day rounds up", t0.Add(36 * time.Hour), 2},
		{"one minute left", t0.Add(time.Minute), 1},
		{"just passed", t0.Add(-time.Minute), 0},
		{"two days late", t0.Add(-48 * time.Hour), -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysRemaining(tt.deadline, t0))
		})
	}
}
