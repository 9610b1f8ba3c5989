package pgsql

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBankRepository struct {
	BaseRepository
}

func newPgxBankRepository(pool *pgxpool.Pool) *PgxBankRepository {
	return &PgxBankRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankRepositoryFacade = (*PgxBankRepository)(nil)

const bankAccountColumns = `bank_account_id, company_id, account_number, bank_name, currency,
	initial_balance, ledger_account_id, remark, created_at, created_by`

const statementColumns = `statement_id, company_id, bank_account_id, statement_date, amount,
	statement_type, balance, description, is_reconciled, created_at`

const reconciliationColumns = `reconciliation_id, company_id, statement_id, journal_id,
	matched_amount, match_date, remark, created_at, created_by`

func scanBankAccount(row pgx.Row) (domain.BankAccount, error) {
	var b domain.BankAccount
	err := row.Scan(&b.BankAccountID, &b.CompanyID, &b.AccountNumber, &b.BankName, &b.Currency,
		&b.InitialBalance, &b.LedgerAccountID, &b.Remark, &b.CreatedAt, &b.CreatedBy)
	return b, err
}

func scanStatement(row pgx.Row) (domain.BankStatement, error) {
	var s domain.BankStatement
	err := row.Scan(&s.StatementID, &s.CompanyID, &s.BankAccountID, &s.Date, &s.Amount,
		&s.Type, &s.Balance, &s.Description, &s.IsReconciled, &s.CreatedAt)
	return s, err
}

func scanReconciliation(row pgx.Row) (domain.Reconciliation, error) {
	var rc domain.Reconciliation
	err := row.Scan(&rc.ReconciliationID, &rc.CompanyID, &rc.StatementID, &rc.JournalID,
		&rc.MatchedAmount, &rc.MatchDate, &rc.Remark, &rc.CreatedAt, &rc.CreatedBy)
	return rc, err
}

func (r *PgxBankRepository) SaveBankAccount(ctx context.Context, b domain.BankAccount) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO bank_accounts (`+bankAccountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.BankAccountID, b.CompanyID, b.AccountNumber, b.BankName, b.Currency,
		b.InitialBalance, b.LedgerAccountID, b.Remark, b.CreatedAt, b.CreatedBy)
	if err != nil {
		return writeError(err, "save bank account")
	}
	return nil
}

func (r *PgxBankRepository) FindBankAccount(ctx context.Context, companyID, bankAccountID string) (*domain.BankAccount, error) {
	return r.findBankAccount(ctx, r.Pool, companyID, bankAccountID, false)
}

func (r *PgxBankRepository) LockBankAccount(ctx context.Context, tx pgx.Tx, companyID, bankAccountID string) (*domain.BankAccount, error) {
	return r.findBankAccount(ctx, r.db(tx), companyID, bankAccountID, true)
}

func (r *PgxBankRepository) findBankAccount(ctx context.Context, q querier, companyID, bankAccountID string, lock bool) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE company_id = $1 AND bank_account_id = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	b, err := scanBankAccount(q.QueryRow(ctx, query, companyID, bankAccountID))
	if err != nil {
		return nil, readError(err, "find bank account "+bankAccountID)
	}
	return &b, nil
}

func (r *PgxBankRepository) ListBankAccounts(ctx context.Context, companyID string) ([]domain.BankAccount, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts
		WHERE company_id = $1 ORDER BY account_number`, companyID)
	if err != nil {
		return nil, readError(err, "list bank accounts")
	}
	return collect(rows, "list bank accounts", scanBankAccount)
}

func (r *PgxBankRepository) SaveStatement(ctx context.Context, s domain.BankStatement) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO bank_statements (`+statementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.StatementID, s.CompanyID, s.BankAccountID, s.Date, s.Amount,
		s.Type, s.Balance, s.Description, s.IsReconciled, s.CreatedAt)
	if err != nil {
		return writeError(err, "save bank statement")
	}
	return nil
}

func (r *PgxBankRepository) FindStatementInTx(ctx context.Context, tx pgx.Tx, companyID, statementID string) (*domain.BankStatement, error) {
	s, err := scanStatement(r.db(tx).QueryRow(ctx, `SELECT `+statementColumns+` FROM bank_statements
		WHERE company_id = $1 AND statement_id = $2`, companyID, statementID))
	if err != nil {
		return nil, readError(err, "find bank statement "+statementID)
	}
	return &s, nil
}

// ListStatementsInTx returns the account's statement lines in date order.
// Zero range bounds are open.
func (r *PgxBankRepository) ListStatementsInTx(ctx context.Context, tx pgx.Tx, companyID, bankAccountID string, dates domain.DateRange) ([]domain.BankStatement, error) {
	rows, err := r.db(tx).Query(ctx, `SELECT `+statementColumns+` FROM bank_statements
		WHERE company_id = $1 AND bank_account_id = $2
			AND ($3::date IS NULL OR statement_date >= $3)
			AND ($4::date IS NULL OR statement_date <= $4)
		ORDER BY statement_date, statement_id`,
		companyID, bankAccountID, dateBound(dates.From), dateBound(dates.To))
	if err != nil {
		return nil, readError(err, "list bank statements")
	}
	return collect(rows, "list bank statements", scanStatement)
}

func (r *PgxBankRepository) SetStatementsReconciledInTx(ctx context.Context, tx pgx.Tx, statementIDs []string, reconciled bool) error {
	if len(statementIDs) == 0 {
		return nil
	}
	tag, err := r.db(tx).Exec(ctx, `UPDATE bank_statements SET is_reconciled = $2
		WHERE statement_id = ANY($1)`, statementIDs, reconciled)
	if err != nil {
		return writeError(err, "flag bank statements")
	}
	if tag.RowsAffected() != int64(len(uniqueStrings(statementIDs))) {
		return readError(pgx.ErrNoRows, "flag bank statements")
	}
	return nil
}

func (r *PgxBankRepository) SaveReconciliationsInTx(ctx context.Context, tx pgx.Tx, recs []domain.Reconciliation) error {
	batch := &pgx.Batch{}
	for _, rc := range recs {
		batch.Queue(`INSERT INTO reconciliations (`+reconciliationColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			rc.ReconciliationID, rc.CompanyID, rc.StatementID, rc.JournalID,
			rc.MatchedAmount, rc.MatchDate, rc.Remark, rc.CreatedAt, rc.CreatedBy)
	}
	return execBatch(ctx, r.db(tx), batch, "save reconciliations")
}

func (r *PgxBankRepository) FindReconciliationInTx(ctx context.Context, tx pgx.Tx, companyID, reconciliationID string) (*domain.Reconciliation, error) {
	rc, err := scanReconciliation(r.db(tx).QueryRow(ctx, `SELECT `+reconciliationColumns+` FROM reconciliations
		WHERE company_id = $1 AND reconciliation_id = $2`, companyID, reconciliationID))
	if err != nil {
		return nil, readError(err, "find reconciliation "+reconciliationID)
	}
	return &rc, nil
}

func (r *PgxBankRepository) DeleteReconciliationInTx(ctx context.Context, tx pgx.Tx, reconciliationID string) error {
	tag, err := r.db(tx).Exec(ctx, `DELETE FROM reconciliations WHERE reconciliation_id = $1`, reconciliationID)
	if err != nil {
		return writeError(err, "delete reconciliation")
	}
	return expectOne(tag)
}

func (r *PgxBankRepository) CountReconciliationsForStatementInTx(ctx context.Context, tx pgx.Tx, statementID string) (int, error) {
	var n int
	err := r.db(tx).QueryRow(ctx, `SELECT COUNT(*) FROM reconciliations WHERE statement_id = $1`, statementID).Scan(&n)
	if err != nil {
		return 0, readError(err, "count reconciliations")
	}
	return n, nil
}

func (r *PgxBankRepository) ListReconciliationsInTx(ctx context.Context, tx pgx.Tx, companyID string) ([]domain.Reconciliation, error) {
	rows, err := r.db(tx).Query(ctx, `SELECT `+reconciliationColumns+` FROM reconciliations
		WHERE company_id = $1 ORDER BY created_at, reconciliation_id`, companyID)
	if err != nil {
		return nil, readError(err, "list reconciliations")
	}
	return collect(rows, "list reconciliations", scanReconciliation)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
