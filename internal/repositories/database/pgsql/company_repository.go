package pgsql

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCompanyRepository struct {
	BaseRepository
}

func newPgxCompanyRepository(pool *pgxpool.Pool) *PgxCompanyRepository {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

const companyColumns = `company_id, name, tax_id, address, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanCompany(row pgx.Row) (domain.Company, error) {
	var c domain.Company
	err := row.Scan(&c.CompanyID, &c.Name, &c.TaxID, &c.Address, &c.IsActive,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy)
	return c, err
}

func (r *PgxCompanyRepository) SaveCompanyInTx(ctx context.Context, tx pgx.Tx, c domain.Company) error {
	query := `INSERT INTO companies (` + companyColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db(tx).Exec(ctx, query, c.CompanyID, c.Name, c.TaxID, c.Address, c.IsActive,
		c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy)
	if err != nil {
		return writeError(err, "save company "+c.CompanyID)
	}
	return nil
}

func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE company_id = $1`, companyID)
	c, err := scanCompany(row)
	if err != nil {
		return nil, readError(err, "find company "+companyID)
	}
	return &c, nil
}

func (r *PgxCompanyRepository) ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error) {
	query := `
		SELECT c.company_id, c.name, c.tax_id, c.address, c.is_active, c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
		FROM companies c
		JOIN company_members m ON m.company_id = c.company_id
		WHERE m.user_id = $1
		ORDER BY c.name, c.company_id`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, readError(err, "list companies for user")
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, readError(err, "scan company")
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *PgxCompanyRepository) SaveMembershipInTx(ctx context.Context, tx pgx.Tx, m domain.Membership) error {
	query := `
		INSERT INTO company_members (company_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, user_id) DO UPDATE SET role = EXCLUDED.role`
	if _, err := r.db(tx).Exec(ctx, query, m.CompanyID, m.UserID, m.Role, m.JoinedAt); err != nil {
		return writeError(err, "save membership")
	}
	return nil
}

func (r *PgxCompanyRepository) FindMembership(ctx context.Context, companyID, userID string) (*domain.Membership, error) {
	var m domain.Membership
	err := r.Pool.QueryRow(ctx,
		`SELECT company_id, user_id, role, joined_at FROM company_members WHERE company_id = $1 AND user_id = $2`,
		companyID, userID).Scan(&m.CompanyID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		return nil, readError(err, "find membership")
	}
	return &m, nil
}

func (r *PgxCompanyRepository) ListMembers(ctx context.Context, companyID string) ([]domain.Membership, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT company_id, user_id, role, joined_at FROM company_members WHERE company_id = $1 ORDER BY joined_at, user_id`,
		companyID)
	if err != nil {
		return nil, readError(err, "list members")
	}
	defer rows.Close()

	members := []domain.Membership{}
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.CompanyID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, readError(err, "scan membership")
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
