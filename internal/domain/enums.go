package domain

// Level is the proficiency a participant declares at registration.
type Level string

const (
	LevelExperienced Level = "experienced"
	LevelBeginner    Level = "beginner"
)

func (l Level) String() string { return string(l) }

func (l Level) IsValid() bool {
	switch l {
	case LevelExperienced, LevelBeginner:
		return true
	}
	return false
}

// Pool returns the topic pool drawn from for this level.
func (l Level) Pool() Pool {
	if l == LevelExperienced {
		return PoolHard
	}
	return PoolEasy
}

// Flow is the path a participant commits to.
type Flow string

const (
	FlowRandom Flow = "random"
	FlowOwn    Flow = "own"
)

func (f Flow) String() string { return string(f) }

func (f Flow) IsValid() bool {
	switch f {
	case FlowRandom, FlowOwn:
		return true
	}
	return false
}

// SubmissionStatus moves forward only: pending -> approved or pending -> rejected.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

func (s SubmissionStatus) String() string { return string(s) }

func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return true
	}
	return false
}

// Pool identifies one of the fixed topic catalogs.
type Pool string

const (
	PoolEasy Pool = "easy"
	PoolHard Pool = "hard"
)

func (p Pool) String() string { return string(p) }

func (p Pool) IsValid() bool {
	switch p {
	case PoolEasy, PoolHard:
		return true
	}
	return false
}

// Pools lists every pool in a stable order.
func Pools() []Pool { return []Pool{PoolEasy, PoolHard} }
