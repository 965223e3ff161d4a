package ledger

import (
	"github.com/google/uuid"

	"github.com/tirta-erp/tirta/internal/coa"
)

// ApplyBalances recomputes every account's Balance from journal movement
// instead of trusting a stored balance column. The starting point is the
// account's InitialBalance, except for accounts already covered by an
// opening-balance journal, which start from zero so the opening amount is
// not counted twice. Movement is signed by the account's normal balance:
// debit-normal accounts grow with debits, credit-normal accounts grow with
// credits.
//
// The input slice is not mutated; a copy with balances set is returned.
func ApplyBalances(accounts []coa.Account, lines []PostedLine, hasOpeningJournal map[uuid.UUID]bool) []coa.Account {
	balances := make(map[uuid.UUID]float64, len(accounts))
	normal := make(map[uuid.UUID]coa.NormalBalance, len(accounts))
	for _, acc := range accounts {
		start := acc.InitialBalance
		if hasOpeningJournal[acc.ID] {
			start = 0
		}
		balances[acc.ID] = start
		nb := acc.NormalBalance
		if nb == "" {
			nb = coa.NormalBalanceFor(acc.Type)
		}
		normal[acc.ID] = nb
	}

	for _, line := range lines {
		if !line.Countable() {
			continue
		}
		nb, known := normal[line.AccountID]
		if !known {
			// Deleted-but-referenced account; infer from the denormalized code.
			nb = coa.NormalBalanceFor(InferTypeFromCode(line.AccountCode))
		}
		change := line.Debit - line.Credit
		if nb == coa.NormalBalanceCredit {
			change = line.Credit - line.Debit
		}
		balances[line.AccountID] += change
	}

	out := make([]coa.Account, len(accounts))
	for i, acc := range accounts {
		acc.Balance = balances[acc.ID]
		out[i] = acc
	}
	return out
}
