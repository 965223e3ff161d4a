package ledger

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tirta-erp/tirta/internal/coa"
)

// AccountTotal accumulates debit and credit independently for one account.
// No netting happens here; callers apply the sign convention that matches
// each reporting bucket's normal balance.
type AccountTotal struct {
	AccountID uuid.UUID
	Code      string
	Name      string
	Type      coa.AccountType
	Debit     float64
	Credit    float64
}

// CreditNet is credit minus debit, the natural amount for credit-normal
// buckets (revenue, liabilities).
func (t AccountTotal) CreditNet() float64 { return t.Credit - t.Debit }

// DebitNet is debit minus credit, the natural amount for debit-normal
// buckets (expenses, assets).
func (t AccountTotal) DebitNet() float64 { return t.Debit - t.Credit }

// Aggregate sums debit and credit per account over the given lines. Lines
// whose entry is unposted or voided are skipped even if the repository let
// one through. A line referencing an account missing from accountsByID still
// produces a total using the line's own denormalized code and name, with the
// type inferred from the code, so deleted-but-referenced accounts are not
// silently dropped.
func Aggregate(lines []PostedLine, accountsByID map[uuid.UUID]coa.Account) map[uuid.UUID]AccountTotal {
	totals := make(map[uuid.UUID]AccountTotal)
	for _, line := range lines {
		if !line.Countable() {
			continue
		}
		total, ok := totals[line.AccountID]
		if !ok {
			total = AccountTotal{AccountID: line.AccountID}
			if acc, found := accountsByID[line.AccountID]; found {
				total.Code = acc.Code
				total.Name = acc.Name
				total.Type = acc.Type
			} else {
				total.Code = line.AccountCode
				total.Name = line.AccountName
				total.Type = InferTypeFromCode(line.AccountCode)
			}
		}
		total.Debit += line.Debit
		total.Credit += line.Credit
		totals[line.AccountID] = total
	}
	return totals
}

// InferTypeFromCode guesses an account type from the leading code digit,
// following the 1=asset .. 8=other-expense chart convention. Used only when
// the account record itself is gone.
func InferTypeFromCode(code string) coa.AccountType {
	code = strings.TrimLeft(code, " ")
	if code == "" {
		return ""
	}
	switch code[0] {
	case '1':
		return coa.AccountTypeAsset
	case '2':
		return coa.AccountTypeLiability
	case '3':
		return coa.AccountTypeEquity
	case '4', '7':
		return coa.AccountTypeRevenue
	case '5', '6', '8':
		return coa.AccountTypeExpense
	default:
		return ""
	}
}
