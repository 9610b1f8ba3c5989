package pgsql

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/SscSPs/smb_books_app/internal/models"
	"github.com/SscSPs/smb_books_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, company_id, parent_id, code, name, account_type, normal_balance,
	balance_debit, balance_credit, is_core, path, remark, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.CompanyID,
		&m.ParentID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.NormalBalance,
		&m.BalanceDebit,
		&m.BalanceCredit,
		&m.IsCore,
		&m.Path,
		&m.Remark,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, q querier, op, query string, args ...any) ([]domain.Account, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, readError(err, op)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, readError(err, op)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err, op)
	}
	return accounts, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 AND account_id = $2`, companyID, accountID)
	acc, err := scanAccount(row)
	if err != nil {
		return nil, readError(err, "find account "+accountID)
	}
	return &acc, nil
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 AND code = $2`, companyID, code)
	acc, err := scanAccount(row)
	if err != nil {
		return nil, readError(err, "find account by code "+code)
	}
	return &acc, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	return r.queryAccounts(ctx, r.Pool, "list accounts",
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 ORDER BY code`, companyID)
}

func (r *PgxAccountRepository) HasLedgerLinesInTx(ctx context.Context, tx pgx.Tx, companyID, accountID string) (bool, error) {
	var exists bool
	err := r.db(tx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM ledger_lines l
			JOIN journals j ON j.journal_id = l.journal_id
			WHERE j.company_id = $1 AND l.account_id = $2
		)`, companyID, accountID).Scan(&exists)
	if err != nil {
		return false, readError(err, "check ledger lines")
	}
	return exists, nil
}

func (r *PgxAccountRepository) HasChildAccountsInTx(ctx context.Context, tx pgx.Tx, companyID, accountID string) (bool, error) {
	var exists bool
	err := r.db(tx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE company_id = $1 AND parent_id = $2)`,
		companyID, accountID).Scan(&exists)
	if err != nil {
		return false, readError(err, "check child accounts")
	}
	return exists, nil
}

// SaveAccountsInTx inserts the accounts in one batch.
func (r *PgxAccountRepository) SaveAccountsInTx(ctx context.Context, tx pgx.Tx, accounts []domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	batch := &pgx.Batch{}
	for _, acc := range accounts {
		m := mapping.ToModelAccount(acc)
		batch.Queue(query,
			m.AccountID,
			m.CompanyID,
			m.ParentID,
			m.Code,
			m.Name,
			m.AccountType,
			m.NormalBalance,
			m.BalanceDebit,
			m.BalanceCredit,
			m.IsCore,
			m.Path,
			m.Remark,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	return execBatch(ctx, r.db(tx), batch, "save accounts")
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, acc domain.Account) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE accounts SET name = $3, remark = $4, last_updated_at = $5, last_updated_by = $6
		WHERE company_id = $1 AND account_id = $2`,
		acc.CompanyID, acc.AccountID, acc.Name, acc.Remark, acc.LastUpdatedAt, acc.LastUpdatedBy)
	if err != nil {
		return writeError(err, "update account "+acc.AccountID)
	}
	return expectOne(tag)
}

func (r *PgxAccountRepository) DeleteAccountInTx(ctx context.Context, tx pgx.Tx, companyID, accountID string) error {
	tag, err := r.db(tx).Exec(ctx, `DELETE FROM accounts WHERE company_id = $1 AND account_id = $2`, companyID, accountID)
	if err != nil {
		return writeError(err, "delete account "+accountID)
	}
	return expectOne(tag)
}

func accountsByID(accounts []domain.Account) map[string]domain.Account {
	out := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		out[acc.AccountID] = acc
	}
	return out
}

func (r *PgxAccountRepository) FindAccountsByIDsInTx(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	accounts, err := r.queryAccounts(ctx, r.db(tx), "find accounts by ids",
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 AND account_id = ANY($2)`, companyID, accountIDs)
	if err != nil {
		return nil, err
	}
	return accountsByID(accounts), nil
}

func (r *PgxAccountRepository) FindAccountsByCodesInTx(ctx context.Context, tx pgx.Tx, companyID string, codes []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	accounts, err := r.queryAccounts(ctx, r.db(tx), "find accounts by codes",
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 AND code = ANY($2)`, companyID, codes)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		out[acc.Code] = acc
	}
	return out, nil
}

// LockAccountsForUpdate locks rows in account id order so concurrent postings
// touching overlapping accounts cannot deadlock.
func (r *PgxAccountRepository) LockAccountsForUpdate(ctx context.Context, tx pgx.Tx, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	accounts, err := r.queryAccounts(ctx, r.db(tx), "lock accounts",
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = $1 AND account_id = ANY($2)
		ORDER BY account_id FOR UPDATE`, companyID, accountIDs)
	if err != nil {
		return nil, err
	}
	return accountsByID(accounts), nil
}

func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, deltas map[string]domain.BalanceDelta, userID string, now time.Time) error {
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	batch := &pgx.Batch{}
	for _, id := range ids {
		d := deltas[id]
		batch.Queue(`
			UPDATE accounts
			SET balance_debit = balance_debit + $2, balance_credit = balance_credit + $3,
				last_updated_at = $4, last_updated_by = $5
			WHERE account_id = $1`,
			id, d.Debit, d.Credit, now, userID)
	}
	return execBatch(ctx, r.db(tx), batch, "update account balances")
}
