package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tirta-erp/tirta/internal/coa"
)

func postedLine(accountID uuid.UUID, code, name string, debit, credit float64) PostedLine {
	return PostedLine{
		JournalLine: JournalLine{
			ID:          uuid.New(),
			AccountID:   accountID,
			AccountCode: code,
			AccountName: name,
			Debit:       debit,
			Credit:      credit,
		},
		EntryDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:    EntryStatusPosted,
	}
}

func TestAggregateSumsPerAccount(t *testing.T) {
	cashID := uuid.New()
	salesID := uuid.New()
	accounts := map[uuid.UUID]coa.Account{
		cashID:  {ID: cashID, Code: "1110", Name: "Kas Besar", Type: coa.AccountTypeAsset},
		salesID: {ID: salesID, Code: "4100", Name: "Penjualan", Type: coa.AccountTypeRevenue},
	}
	lines := []PostedLine{
		postedLine(cashID, "1110", "Kas Besar", 1000000, 0),
		postedLine(salesID, "4100", "Penjualan", 0, 1000000),
		postedLine(cashID, "1110", "Kas Besar", 250000, 0),
	}

	totals := Aggregate(lines, accounts)
	require.Len(t, totals, 2)
	require.InDelta(t, 1250000, totals[cashID].Debit, 0.001)
	require.InDelta(t, 0, totals[cashID].Credit, 0.001)
	require.InDelta(t, 1000000, totals[salesID].CreditNet(), 0.001)
	require.Equal(t, "Penjualan", totals[salesID].Name)
}

func TestAggregateSkipsVoidedAndUnposted(t *testing.T) {
	cashID := uuid.New()
	voided := postedLine(cashID, "1110", "Kas Besar", 500000, 0)
	voided.IsVoided = true
	draft := postedLine(cashID, "1110", "Kas Besar", 300000, 0)
	draft.Status = EntryStatusDraft

	totals := Aggregate([]PostedLine{voided, draft}, nil)
	require.Empty(t, totals)
}

func TestAggregateMissingAccountUsesDenormalizedFields(t *testing.T) {
	goneID := uuid.New()
	lines := []PostedLine{
		postedLine(goneID, "5100", "Beban Pokok", 80000, 0),
	}
	totals := Aggregate(lines, map[uuid.UUID]coa.Account{})
	total, ok := totals[goneID]
	require.True(t, ok)
	require.Equal(t, "5100", total.Code)
	require.Equal(t, "Beban Pokok", total.Name)
	require.Equal(t, coa.AccountTypeExpense, total.Type)
	require.InDelta(t, 80000, total.DebitNet(), 0.001)
}

func TestInferTypeFromCode(t *testing.T) {
	require.Equal(t, coa.AccountTypeAsset, InferTypeFromCode("1110"))
	require.Equal(t, coa.AccountTypeLiability, InferTypeFromCode("2110"))
	require.Equal(t, coa.AccountTypeEquity, InferTypeFromCode("3100"))
	require.Equal(t, coa.AccountTypeRevenue, InferTypeFromCode("4100"))
	require.Equal(t, coa.AccountTypeRevenue, InferTypeFromCode("7100"))
	require.Equal(t, coa.AccountTypeExpense, InferTypeFromCode("6200"))
	require.Equal(t, coa.AccountType(""), InferTypeFromCode(""))
}
