package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tirta-erp/tirta/internal/shared"
)

// Repository reads posted journal data for one branch. All queries exclude
// drafts and voided entries at the database; the aggregator re-checks
// anyway.
type Repository interface {
	// ListPostedLines returns joined lines for posted, non-voided entries in
	// the branch. Nil bounds mean unbounded on that side; the balance sheet
	// passes only an upper bound, the income statement passes both.
	ListPostedLines(ctx context.Context, branchID uuid.UUID, from, to *time.Time) ([]PostedLine, error)
	// ListPostedEntries returns posted, non-voided entries with their lines
	// for the period, for cash-flow classification.
	ListPostedEntries(ctx context.Context, period shared.StatementPeriod) ([]JournalEntry, error)
	// OpeningBalanceAccounts reports which accounts have a non-voided
	// opening-balance journal in the branch.
	OpeningBalanceAccounts(ctx context.Context, branchID uuid.UUID) (map[uuid.UUID]bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListPostedLines(ctx context.Context, branchID uuid.UUID, from, to *time.Time) ([]PostedLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT l.id, l.journal_entry_id, l.account_id, l.account_code, l.account_name,
		       l.debit_amount, l.credit_amount, l.description,
		       e.entry_date, e.status, e.is_voided, e.reference_type
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.id = l.journal_entry_id
		WHERE e.branch_id = $1
		  AND e.status = 'posted'
		  AND e.is_voided = FALSE
		  AND ($2::date IS NULL OR e.entry_date >= $2)
		  AND ($3::date IS NULL OR e.entry_date <= $3)
		ORDER BY e.entry_date, l.account_code`, branchID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: list journal lines: %w", shared.ErrDataRetrieval, err)
	}
	defer rows.Close()
	var lines []PostedLine
	for rows.Next() {
		var l PostedLine
		err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.AccountCode, &l.AccountName,
			&l.Debit, &l.Credit, &l.Description,
			&l.EntryDate, &l.Status, &l.IsVoided, &l.ReferenceType)
		if err != nil {
			return nil, fmt.Errorf("%w: scan journal line: %w", shared.ErrDataRetrieval, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list journal lines: %w", shared.ErrDataRetrieval, err)
	}
	return lines, nil
}

func (r *repository) ListPostedEntries(ctx context.Context, period shared.StatementPeriod) ([]JournalEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, entry_number, entry_date, description, status, is_voided,
		       branch_id, reference_type, reference_id
		FROM journal_entries
		WHERE branch_id = $1
		  AND entry_date BETWEEN $2 AND $3
		  AND status = 'posted'
		  AND is_voided = FALSE
		ORDER BY entry_date, entry_number`, period.BranchID, period.From, period.To)
	if err != nil {
		return nil, fmt.Errorf("%w: list journal entries: %w", shared.ErrDataRetrieval, err)
	}
	defer rows.Close()

	var entries []JournalEntry
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var e JournalEntry
		err := rows.Scan(&e.ID, &e.EntryNumber, &e.EntryDate, &e.Description, &e.Status,
			&e.IsVoided, &e.BranchID, &e.ReferenceType, &e.ReferenceID)
		if err != nil {
			return nil, fmt.Errorf("%w: scan journal entry: %w", shared.ErrDataRetrieval, err)
		}
		index[e.ID] = len(entries)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list journal entries: %w", shared.ErrDataRetrieval, err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	lineRows, err := r.db.Query(ctx, `
		SELECT id, journal_entry_id, account_id, account_code, account_name,
		       debit_amount, credit_amount, description
		FROM journal_entry_lines
		WHERE journal_entry_id = ANY($1)
		ORDER BY journal_entry_id, account_code`, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: list entry lines: %w", shared.ErrDataRetrieval, err)
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var l JournalLine
		err := lineRows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.AccountCode, &l.AccountName,
			&l.Debit, &l.Credit, &l.Description)
		if err != nil {
			return nil, fmt.Errorf("%w: scan entry line: %w", shared.ErrDataRetrieval, err)
		}
		if i, ok := index[l.EntryID]; ok {
			entries[i].Lines = append(entries[i].Lines, l)
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list entry lines: %w", shared.ErrDataRetrieval, err)
	}
	return entries, nil
}

func (r *repository) OpeningBalanceAccounts(ctx context.Context, branchID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT l.account_id
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.id = l.journal_entry_id
		WHERE e.branch_id = $1
		  AND e.reference_type = $2
		  AND e.is_voided = FALSE`, branchID, ReferenceTypeOpening)
	if err != nil {
		return nil, fmt.Errorf("%w: list opening accounts: %w", shared.ErrDataRetrieval, err)
	}
	defer rows.Close()
	out := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scan opening account: %w", shared.ErrDataRetrieval, err)
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list opening accounts: %w", shared.ErrDataRetrieval, err)
	}
	return out, nil
}
