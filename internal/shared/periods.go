package shared

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StatementPeriod is the explicit scope supplied by the caller to every
// statement entry point. There is no ambient branch or timezone context;
// everything flows through this value.
type StatementPeriod struct {
	From     time.Time
	To       time.Time
	BranchID uuid.UUID
}

// NewStatementPeriod validates and constructs a period.
func NewStatementPeriod(from, to time.Time, branchID uuid.UUID) (StatementPeriod, error) {
	if branchID == uuid.Nil {
		return StatementPeriod{}, fmt.Errorf("%w: branch id required", ErrInvalidPeriod)
	}
	if from.IsZero() || to.IsZero() {
		return StatementPeriod{}, fmt.Errorf("%w: period bounds required", ErrInvalidPeriod)
	}
	if to.Before(from) {
		return StatementPeriod{}, fmt.Errorf("%w: period end before start", ErrInvalidPeriod)
	}
	return StatementPeriod{From: from, To: to, BranchID: branchID}, nil
}

// Contains reports whether the given date falls inside the period, inclusive
// on both bounds.
func (p StatementPeriod) Contains(date time.Time) bool {
	return !date.Before(p.From) && !date.After(p.To)
}

// Label renders the period as "2006-01-02 .. 2006-01-02" for cache keys and
// log lines.
func (p StatementPeriod) Label() string {
	return p.From.Format("2006-01-02") + ".." + p.To.Format("2006-01-02")
}
