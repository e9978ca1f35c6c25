package usecase

import (
	"fmt"
	"time"

	"github.com/morning-sprint/backend/domain"
)

// ValidateRange rejects inverted intervals and intervals wider than maxDays.
// The cap bounds the row scan behind every range-shaped endpoint.
func ValidateRange(start, end time.Time, maxDays int) error {
	if start.IsZero() || end.IsZero() {
		return domain.NewError(domain.ErrCodeInvalid, "missing range bounds")
	}
	span := end.Sub(start)
	if span < 0 {
		return domain.NewError(domain.ErrCodeInvalid, "range end precedes start")
	}
	if span > time.Duration(maxDays)*24*time.Hour {
		return domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("range exceeds %d days", maxDays))
	}
	return nil
}
