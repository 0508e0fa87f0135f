package domain

import (
	"math"
	"time"
)

// DeadlineWindow is how long a participant has once the clock starts.
const DeadlineWindow = 14 * 24 * time.Hour

// DaysRemaining returns the whole days left until deadline, rounded up.
// It is zero or negative once the deadline has passed.
func DaysRemaining(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}
