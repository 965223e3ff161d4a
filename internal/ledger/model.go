package ledger

import (
	"time"

	"github.com/google/uuid"
)

// EntryStatus enumerates journal lifecycle values. Posted entries are
// immutable; voiding is a soft flag kept for audit.
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "draft"
	EntryStatusPosted EntryStatus = "posted"
)

// ReferenceTypeOpening marks journals that record an account's opening
// balance. Accounts covered by such a journal must not also count their
// InitialBalance, or the amount doubles.
const ReferenceTypeOpening = "opening"

// JournalEntry captures posting metadata for one balanced double-entry
// record.
type JournalEntry struct {
	ID            uuid.UUID
	EntryNumber   string
	EntryDate     time.Time
	Description   string
	Status        EntryStatus
	IsVoided      bool
	BranchID      uuid.UUID
	ReferenceType string
	ReferenceID   *uuid.UUID
	Lines         []JournalLine
}

// Countable reports whether the entry participates in any aggregation.
func (e JournalEntry) Countable() bool {
	return e.Status == EntryStatusPosted && !e.IsVoided
}

// JournalLine stores a debit or credit amount against an account. Code and
// name are denormalized at posting time so lines survive account deletion.
type JournalLine struct {
	ID          uuid.UUID
	EntryID     uuid.UUID
	AccountID   uuid.UUID
	AccountCode string
	AccountName string
	Debit       float64
	Credit      float64
	Description string
}

// SignedAmount is debit minus credit; positive means the debit side.
func (l JournalLine) SignedAmount() float64 {
	return l.Debit - l.Credit
}

// PostedLine is a journal line joined with the entry fields the aggregator
// needs to filter on. Repositories produce these pre-filtered, but the
// aggregator still re-checks the flags defensively.
type PostedLine struct {
	JournalLine
	EntryDate     time.Time
	Status        EntryStatus
	IsVoided      bool
	ReferenceType string
}

// Countable mirrors JournalEntry.Countable for joined rows.
func (l PostedLine) Countable() bool {
	return l.Status == EntryStatusPosted && !l.IsVoided
}
