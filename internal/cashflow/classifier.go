package cashflow

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tirta-erp/tirta/internal/coa"
	"github.com/tirta-erp/tirta/internal/ledger"
)

// Category buckets a cash movement into one of the three statement sections.
type Category string

const (
	CategoryOperating Category = "operating"
	CategoryInvesting Category = "investing"
	CategoryFinancing Category = "financing"
)

// Bucket names an operating sub-classification. Non-operating events carry
// an empty bucket.
type Bucket string

const (
	BucketFromCustomers     Bucket = "from_customers"
	BucketFromReceivables   Bucket = "from_receivables"
	BucketFromAdvances      Bucket = "from_advances"
	BucketOtherReceipts     Bucket = "other_receipts"
	BucketForMaterials      Bucket = "for_materials"
	BucketForPayables       Bucket = "for_payables"
	BucketForLabor          Bucket = "for_labor"
	BucketForAdvances       Bucket = "for_advances"
	BucketForOverhead       Bucket = "for_overhead"
	BucketForInterest       Bucket = "for_interest"
	BucketForTaxes          Bucket = "for_taxes"
	BucketForOperatingCosts Bucket = "for_operating_costs"
	BucketOtherPayments     Bucket = "other_payments"
)

// Counterpart identifies the non-cash account that explains a cash
// movement. For deleted accounts the code and name come from the journal
// line and the type is inferred from the code.
type Counterpart struct {
	AccountID uuid.UUID
	Code      string
	Name      string
	Type      coa.AccountType
}

// Event is one categorized, directional cash movement. Amount is signed:
// positive means cash flowed in.
type Event struct {
	EntryID       uuid.UUID
	Date          time.Time
	Description   string
	ReferenceType string
	Amount        float64
	Counterpart   *Counterpart
	Category      Category
	Bucket        Bucket
}

// Classify converts journal entries touching cash or bank accounts into
// categorized flow events.
//
// Per entry the lines split into cash lines and counterpart lines. Each cash
// line yields events independently: its signed amount (debit − credit) is
// distributed over the counterparts chosen by the policy. Entries with no
// cash line are ignored; so are entries whose every line is a cash account,
// which are internal transfers with no real flow in or out of the business.
func Classify(entries []ledger.JournalEntry, cashIDs map[uuid.UUID]bool, accountsByID map[uuid.UUID]coa.Account, policy CounterpartPolicy) []Event {
	if policy == nil {
		policy = FirstCounterpart
	}
	var events []Event
	for _, entry := range entries {
		if !entry.Countable() {
			continue
		}
		var cashLines, counterparts []ledger.JournalLine
		for _, line := range entry.Lines {
			if cashIDs[line.AccountID] {
				cashLines = append(cashLines, line)
			} else {
				counterparts = append(counterparts, line)
			}
		}
		if len(cashLines) == 0 || len(counterparts) == 0 {
			continue
		}
		splits := policy(counterparts)
		for _, cashLine := range cashLines {
			signed := cashLine.SignedAmount()
			if signed == 0 {
				continue
			}
			for _, split := range splits {
				cp := resolveCounterpart(split.Line, accountsByID)
				category := categorize(cp)
				amount := signed * split.Fraction
				events = append(events, Event{
					EntryID:       entry.ID,
					Date:          entry.EntryDate,
					Description:   firstNonEmpty(entry.Description, cashLine.Description),
					ReferenceType: entry.ReferenceType,
					Amount:        amount,
					Counterpart:   cp,
					Category:      category,
					Bucket:        bucketize(category, cp, amount, entry.Description),
				})
			}
		}
	}
	return events
}

func resolveCounterpart(line ledger.JournalLine, accountsByID map[uuid.UUID]coa.Account) *Counterpart {
	if acc, ok := accountsByID[line.AccountID]; ok {
		return &Counterpart{AccountID: acc.ID, Code: acc.Code, Name: acc.Name, Type: acc.Type}
	}
	return &Counterpart{
		AccountID: line.AccountID,
		Code:      line.AccountCode,
		Name:      line.AccountName,
		Type:      ledger.InferTypeFromCode(line.AccountCode),
	}
}

// categorize maps the counterpart account onto a statement section by code
// range: fixed assets are investing, equity and bank loans are financing,
// everything else is operating.
func categorize(cp *Counterpart) Category {
	if cp == nil {
		return CategoryOperating
	}
	if hasAnyPrefix(cp.Code, "14", "15", "16") {
		return CategoryInvesting
	}
	if hasAnyPrefix(cp.Code, "3", "22") || cp.Type == coa.AccountTypeEquity {
		return CategoryFinancing
	}
	return CategoryOperating
}

// bucketize sub-classifies operating events. The rule order is fixed:
// employee advances before the wider receivables range, materials before
// generic payables, labor and interest and taxes before the catch-all
// operating-cost bucket.
func bucketize(category Category, cp *Counterpart, amount float64, description string) Bucket {
	if category != CategoryOperating {
		return ""
	}
	code := ""
	name := ""
	if cp != nil {
		code = cp.Code
		name = strings.ToLower(cp.Name)
	}
	desc := strings.ToLower(description)

	if amount > 0 {
		switch {
		case hasAnyPrefix(code, "122") || strings.Contains(name, "panjar") || strings.Contains(name, "piutang karyawan"):
			return BucketFromAdvances
		case hasAnyPrefix(code, "12"):
			return BucketFromReceivables
		case hasAnyPrefix(code, "4"):
			return BucketFromCustomers
		default:
			return BucketOtherReceipts
		}
	}
	switch {
	case hasAnyPrefix(code, "122") || strings.Contains(name, "panjar") || strings.Contains(name, "piutang karyawan"):
		return BucketForAdvances
	case hasAnyPrefix(code, "131", "132") || strings.Contains(name, "persediaan") || strings.Contains(name, "bahan"):
		return BucketForMaterials
	case hasAnyPrefix(code, "21"):
		return BucketForPayables
	case hasAnyPrefix(code, "62") || strings.Contains(name, "gaji") || strings.Contains(name, "upah"):
		return BucketForLabor
	case hasAnyPrefix(code, "8") || strings.Contains(name, "bunga"):
		return BucketForInterest
	case strings.Contains(name, "pajak") || strings.Contains(desc, "pajak"):
		return BucketForTaxes
	case strings.Contains(name, "overhead") || strings.Contains(desc, "listrik") || strings.Contains(desc, "overhead"):
		return BucketForOverhead
	case hasAnyPrefix(code, "6"):
		return BucketForOperatingCosts
	default:
		return BucketOtherPayments
	}
}

func hasAnyPrefix(code string, prefixes ...string) bool {
	norm := strings.ReplaceAll(strings.ReplaceAll(code, "-", ""), ".", "")
	for _, p := range prefixes {
		if strings.HasPrefix(norm, p) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
