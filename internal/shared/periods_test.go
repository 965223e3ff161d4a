package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewStatementPeriodValidation(t *testing.T) {
	branch := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	_, err := NewStatementPeriod(from, to, uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = NewStatementPeriod(time.Time{}, to, branch)
	require.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = NewStatementPeriod(to, from, branch)
	require.ErrorIs(t, err, ErrInvalidPeriod)

	p, err := NewStatementPeriod(from, to, branch)
	require.NoError(t, err)
	require.Equal(t, branch, p.BranchID)
}

func TestStatementPeriodContains(t *testing.T) {
	p, err := NewStatementPeriod(
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		uuid.New(),
	)
	require.NoError(t, err)

	require.True(t, p.Contains(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, p.Contains(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
	require.False(t, p.Contains(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
	require.False(t, p.Contains(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestStatementPeriodLabel(t *testing.T) {
	p, err := NewStatementPeriod(
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		uuid.New(),
	)
	require.NoError(t, err)
	require.Equal(t, "2026-03-01..2026-03-31", p.Label())
}
