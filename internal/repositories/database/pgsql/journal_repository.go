package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/SscSPs/smb_books_app/internal/models"
	"github.com/SscSPs/smb_books_app/internal/utils/mapping"
	"github.com/SscSPs/smb_books_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal and ledger line data.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalColumns = `journal_id, company_id, journal_date, description, source_type, source_id,
	total_debit, total_credit, posted, posted_by, posted_at, created_at, created_by, last_updated_at, last_updated_by`

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.CompanyID,
		&m.JournalDate,
		&m.Description,
		&m.SourceType,
		&m.SourceID,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Posted,
		&m.PostedBy,
		&m.PostedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// dateBound maps an open range bound to NULL.
func dateBound(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// loadLines fetches the lines of the given journals keyed by journal id.
func (r *PgxJournalRepository) loadLines(ctx context.Context, q querier, journalIDs []string) (map[string][]models.LedgerLine, error) {
	out := make(map[string][]models.LedgerLine, len(journalIDs))
	if len(journalIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `
		SELECT line_id, journal_id, account_id, line_no, debit, credit, memo
		FROM ledger_lines WHERE journal_id = ANY($1)
		ORDER BY journal_id, line_no`, journalIDs)
	if err != nil {
		return nil, readError(err, "load ledger lines")
	}
	defer rows.Close()
	for rows.Next() {
		var l models.LedgerLine
		if err := rows.Scan(&l.LineID, &l.JournalID, &l.AccountID, &l.LineNo, &l.Debit, &l.Credit, &l.Memo); err != nil {
			return nil, readError(err, "scan ledger line")
		}
		out[l.JournalID] = append(out[l.JournalID], l)
	}
	return out, rows.Err()
}

func (r *PgxJournalRepository) findJournal(ctx context.Context, q querier, query, companyID, journalID string) (*domain.JournalEntry, error) {
	m, err := scanJournal(q.QueryRow(ctx, query, companyID, journalID))
	if err != nil {
		return nil, readError(err, "find journal "+journalID)
	}
	lines, err := r.loadLines(ctx, q, []string{journalID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournal(m, lines[journalID])
	return &entry, nil
}

func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, companyID, journalID string) (*domain.JournalEntry, error) {
	return r.findJournal(ctx, r.Pool,
		`SELECT `+journalColumns+` FROM journals WHERE company_id = $1 AND journal_id = $2`, companyID, journalID)
}

func (r *PgxJournalRepository) LockJournalForUpdate(ctx context.Context, tx pgx.Tx, companyID, journalID string) (*domain.JournalEntry, error) {
	return r.findJournal(ctx, r.db(tx),
		`SELECT `+journalColumns+` FROM journals WHERE company_id = $1 AND journal_id = $2 FOR UPDATE`, companyID, journalID)
}

// ListJournals pages through headers by (journal_date, created_at, journal_id) descending.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, companyID string, params portsrepo.JournalListParams) ([]domain.JournalEntry, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	args := []any{companyID, params.Posted, limit + 1}
	cursorClause := ""
	if params.NextToken != nil && *params.NextToken != "" {
		c, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", "%s", err.Error())
		}
		args = append(args, c.Date, c.CreatedAt, c.ID)
		cursorClause = `AND (journal_date, created_at, journal_id) < ($4::date, $5, $6)`
	}

	query := `SELECT ` + journalColumns + ` FROM journals
		WHERE company_id = $1 AND ($2::boolean IS NULL OR posted = $2) ` + cursorClause + `
		ORDER BY journal_date DESC, created_at DESC, journal_id DESC
		LIMIT $3`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, readError(err, "list journals")
	}
	defer rows.Close()

	journals := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, nil, readError(err, "scan journal")
		}
		entry := mapping.ToDomainJournal(m, nil)
		entry.Lines = nil
		journals = append(journals, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, readError(err, "list journals")
	}

	var next *string
	if len(journals) > limit {
		journals = journals[:limit]
		last := journals[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.JournalID})
		next = &token
	}
	return journals, next, nil
}

// SaveJournalInTx inserts the header and its lines in one batch.
func (r *PgxJournalRepository) SaveJournalInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournal(entry)
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO journals (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		m.JournalID,
		m.CompanyID,
		m.JournalDate,
		m.Description,
		m.SourceType,
		m.SourceID,
		m.TotalDebit,
		m.TotalCredit,
		m.Posted,
		m.PostedBy,
		m.PostedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	for _, line := range entry.Lines {
		l := mapping.ToModelLedgerLine(line)
		batch.Queue(`
			INSERT INTO ledger_lines (line_id, journal_id, account_id, line_no, debit, credit, memo)
			SELECT $1, $2, $3, $4, $5, $6, $7
			WHERE EXISTS (SELECT 1 FROM accounts WHERE account_id = $3 AND company_id = $8)`,
			l.LineID, entry.JournalID, l.AccountID, l.LineNo, l.Debit, l.Credit, l.Memo, entry.CompanyID)
	}
	q := r.db(tx)
	results := q.SendBatch(ctx, batch)
	defer results.Close()
	if _, err := results.Exec(); err != nil {
		return writeError(err, "save journal "+entry.JournalID)
	}
	for _, line := range entry.Lines {
		tag, err := results.Exec()
		if err != nil {
			return writeError(err, "save ledger line")
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewValidationError("lines", "account %s does not exist", line.AccountID)
		}
	}
	return nil
}

func (r *PgxJournalRepository) MarkPostedInTx(ctx context.Context, tx pgx.Tx, journalID, userID string, at time.Time) error {
	q := r.db(tx)
	tag, err := q.Exec(ctx, `
		UPDATE journals SET posted = TRUE, posted_by = $2, posted_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE journal_id = $1 AND posted = FALSE`, journalID, userID, at)
	if err != nil {
		return writeError(err, "mark journal posted")
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var posted bool
	if err := q.QueryRow(ctx, `SELECT posted FROM journals WHERE journal_id = $1`, journalID).Scan(&posted); err != nil {
		return readError(err, "find journal "+journalID)
	}
	return &apperrors.AlreadyPostedError{Resource: "journal", ID: journalID, Status: "posted"}
}

func (r *PgxJournalRepository) ListPostedLinesInTx(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string, dates domain.DateRange) ([]domain.PostedLine, error) {
	rows, err := r.db(tx).Query(ctx, `
		SELECT l.line_id, l.journal_id, l.account_id, l.line_no, l.debit, l.credit, l.memo,
			j.journal_date, j.description, j.source_type, j.created_at
		FROM ledger_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		WHERE j.company_id = $1 AND j.posted
			AND (cardinality($2::varchar[]) = 0 OR l.account_id = ANY($2))
			AND ($3::date IS NULL OR j.journal_date >= $3)
			AND ($4::date IS NULL OR j.journal_date <= $4)
		ORDER BY j.journal_date, j.created_at, j.journal_id, l.line_no`,
		companyID, nonNilStrings(accountIDs), dateBound(dates.From), dateBound(dates.To))
	if err != nil {
		return nil, readError(err, "list posted lines")
	}
	defer rows.Close()

	lines := []domain.PostedLine{}
	for rows.Next() {
		var pl domain.PostedLine
		var sourceType string
		if err := rows.Scan(&pl.LineID, &pl.JournalID, &pl.AccountID, &pl.LineNo, &pl.Debit, &pl.Credit, &pl.Memo,
			&pl.Date, &pl.Description, &sourceType, &pl.CreatedAt); err != nil {
			return nil, readError(err, "scan posted line")
		}
		pl.SourceType = domain.SourceType(sourceType)
		lines = append(lines, pl)
	}
	return lines, rows.Err()
}

func (r *PgxJournalRepository) ListPostedJournalsTouchingInTx(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string, dates domain.DateRange) ([]domain.JournalEntry, error) {
	q := r.db(tx)
	rows, err := q.Query(ctx, `SELECT `+journalColumns+` FROM journals j
		WHERE j.company_id = $1 AND j.posted
			AND EXISTS (SELECT 1 FROM ledger_lines l WHERE l.journal_id = j.journal_id AND l.account_id = ANY($2))
			AND ($3::date IS NULL OR j.journal_date >= $3)
			AND ($4::date IS NULL OR j.journal_date <= $4)
		ORDER BY j.journal_date, j.journal_id`,
		companyID, nonNilStrings(accountIDs), dateBound(dates.From), dateBound(dates.To))
	if err != nil {
		return nil, readError(err, "list bank journals")
	}
	var headers []models.Journal
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			rows.Close()
			return nil, readError(err, "scan journal")
		}
		headers = append(headers, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, readError(err, "list bank journals")
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.JournalID
	}
	lines, err := r.loadLines(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		out[i] = mapping.ToDomainJournal(h, lines[h.JournalID])
	}
	return out, nil
}

// nonNilStrings keeps an empty filter encoded as an empty array rather than NULL.
func nonNilStrings(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
