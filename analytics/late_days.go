package analytics

import "time"

const hoursPerDay = 24

// LateDays computes how many whole days a loan is overdue. Partial days
// round down. An open loan is measured against now, a closed one against
// its returned-at timestamp. Zero or negative means the loan is not late.
func LateDays(returnBy time.Time, returnedAt *time.Time, now time.Time) int {
	reference := now
	if returnedAt != nil {
		reference = *returnedAt
	}

	overdue := reference.Sub(returnBy)
	if overdue <= 0 {
		return 0
	}

	return int(overdue.Hours()) / hoursPerDay
}
