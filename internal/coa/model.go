package coa

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccountType enumerates CoA categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// NormalBalance tells whether the account balance grows on the debit or the
// credit side.
type NormalBalance string

const (
	NormalBalanceDebit  NormalBalance = "DEBIT"
	NormalBalanceCredit NormalBalance = "CREDIT"
)

// NormalBalanceFor returns the conventional normal balance for a type.
func NormalBalanceFor(t AccountType) NormalBalance {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return NormalBalanceDebit
	default:
		return NormalBalanceCredit
	}
}

// Account models a chart of accounts node. The chart is per-branch and
// end-user editable, so nothing outside this package may assume fixed codes
// or identifiers.
type Account struct {
	ID             uuid.UUID
	Code           string
	Name           string
	Type           AccountType
	NormalBalance  NormalBalance
	IsHeader       bool
	Balance        float64
	InitialBalance float64
	BranchID       uuid.UUID
	ParentID       *uuid.UUID
	IsActive       bool
	SortOrder      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CodeHasPrefix matches the account code against a prefix, tolerating the
// "1310", "1-310" and "1.310" code styles that coexist in user-edited charts.
func (a Account) CodeHasPrefix(prefix string) bool {
	return codeHasPrefix(a.Code, prefix)
}

func codeHasPrefix(code, prefix string) bool {
	if prefix == "" {
		return false
	}
	norm := func(s string) string {
		s = strings.ReplaceAll(s, "-", "")
		return strings.ReplaceAll(s, ".", "")
	}
	return strings.HasPrefix(norm(code), norm(prefix))
}

// NameContains reports a case-insensitive substring match on the name.
func (a Account) NameContains(keyword string) bool {
	return strings.Contains(strings.ToLower(a.Name), strings.ToLower(keyword))
}

// ByID indexes accounts for aggregation joins.
func ByID(accounts []Account) map[uuid.UUID]Account {
	out := make(map[uuid.UUID]Account, len(accounts))
	for _, a := range accounts {
		out[a.ID] = a
	}
	return out
}
