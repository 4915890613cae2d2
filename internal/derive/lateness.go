package derive

import (
	"time"

	"github.com/dkowalski/truck-logbook/internal/domain"
)

// ExpectedDeadline combines a stop's expected date and time into the instant
// after which completion counts as late. When no expected time was given the
// deadline defaults to end of day, 23:59:00. Expected times carry minute
// precision, so the default does too; because the comparison is strictly
// after, widening it to 23:59:59 would misclassify completions in the final
// minute of the day as on time. Returns nil when no expected date is set.
func ExpectedDeadline(s domain.Stop) *time.Time {
	if s.ExpectedDate == nil {
		return nil
	}
	y, m, d := s.ExpectedDate.Date()
	loc := s.ExpectedDate.Location()

	var deadline time.Time
	if s.ExpectedTime != nil {
		h, min, sec := s.ExpectedTime.Clock()
		deadline = time.Date(y, m, d, h, min, sec, 0, loc)
	} else {
		deadline = time.Date(y, m, d, 23, 59, 0, 0, loc)
	}
	return &deadline
}

// IsLate reports whether the stop was completed strictly after its expected
// deadline. Stops with no expected date, or not yet completed, are never late.
func IsLate(s domain.Stop) bool {
	deadline := ExpectedDeadline(s)
	if deadline == nil || s.CompletedAt == nil {
		return false
	}
	return s.CompletedAt.After(*deadline)
}
