package pgsql

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPartyRepository stores suppliers, customers and products.
type PgxPartyRepository struct {
	BaseRepository
}

func newPgxPartyRepository(pool *pgxpool.Pool) *PgxPartyRepository {
	return &PgxPartyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

const (
	supplierColumns = `supplier_id, company_id, name, contact, phone, address, created_at, created_by, last_updated_at, last_updated_by`
	customerColumns = `customer_id, company_id, name, contact, phone, address, credit_limit, created_at, created_by, last_updated_at, last_updated_by`
	productColumns  = `product_id, company_id, code, name, unit, default_price, specification, created_at, created_by, last_updated_at, last_updated_by`
)

func scanSupplier(row pgx.Row) (domain.Supplier, error) {
	var s domain.Supplier
	err := row.Scan(&s.SupplierID, &s.CompanyID, &s.Name, &s.Contact, &s.Phone, &s.Address,
		&s.CreatedAt, &s.CreatedBy, &s.LastUpdatedAt, &s.LastUpdatedBy)
	return s, err
}

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.CustomerID, &c.CompanyID, &c.Name, &c.Contact, &c.Phone, &c.Address, &c.CreditLimit,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy)
	return c, err
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ProductID, &p.CompanyID, &p.Code, &p.Name, &p.Unit, &p.DefaultPrice, &p.Specification,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy)
	return p, err
}

// collect scans every row with scan, wrapping failures with op.
func collect[T any](rows pgx.Rows, op string, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, readError(err, op)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err, op)
	}
	return out, nil
}

func (r *PgxPartyRepository) SaveSupplier(ctx context.Context, s domain.Supplier) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO suppliers (`+supplierColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.SupplierID, s.CompanyID, s.Name, s.Contact, s.Phone, s.Address,
		s.CreatedAt, s.CreatedBy, s.LastUpdatedAt, s.LastUpdatedBy)
	if err != nil {
		return writeError(err, "save supplier")
	}
	return nil
}

func (r *PgxPartyRepository) FindSupplier(ctx context.Context, companyID, supplierID string) (*domain.Supplier, error) {
	s, err := scanSupplier(r.Pool.QueryRow(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE company_id = $1 AND supplier_id = $2`, companyID, supplierID))
	if err != nil {
		return nil, readError(err, "find supplier "+supplierID)
	}
	return &s, nil
}

func (r *PgxPartyRepository) ListSuppliers(ctx context.Context, companyID string) ([]domain.Supplier, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE company_id = $1 ORDER BY name, supplier_id`, companyID)
	if err != nil {
		return nil, readError(err, "list suppliers")
	}
	return collect(rows, "list suppliers", scanSupplier)
}

func (r *PgxPartyRepository) SaveCustomer(ctx context.Context, c domain.Customer) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO customers (`+customerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.CustomerID, c.CompanyID, c.Name, c.Contact, c.Phone, c.Address, c.CreditLimit,
		c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy)
	if err != nil {
		return writeError(err, "save customer")
	}
	return nil
}

func (r *PgxPartyRepository) FindCustomer(ctx context.Context, companyID, customerID string) (*domain.Customer, error) {
	c, err := scanCustomer(r.Pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE company_id = $1 AND customer_id = $2`, companyID, customerID))
	if err != nil {
		return nil, readError(err, "find customer "+customerID)
	}
	return &c, nil
}

func (r *PgxPartyRepository) LockCustomer(ctx context.Context, tx pgx.Tx, companyID, customerID string) (*domain.Customer, error) {
	c, err := scanCustomer(r.db(tx).QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE company_id = $1 AND customer_id = $2 FOR UPDATE`, companyID, customerID))
	if err != nil {
		return nil, readError(err, "lock customer "+customerID)
	}
	return &c, nil
}

func (r *PgxPartyRepository) ListCustomers(ctx context.Context, companyID string) ([]domain.Customer, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+customerColumns+` FROM customers WHERE company_id = $1 ORDER BY name, customer_id`, companyID)
	if err != nil {
		return nil, readError(err, "list customers")
	}
	return collect(rows, "list customers", scanCustomer)
}

func (r *PgxPartyRepository) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE customers SET name = $3, contact = $4, phone = $5, address = $6, credit_limit = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE company_id = $1 AND customer_id = $2`,
		c.CompanyID, c.CustomerID, c.Name, c.Contact, c.Phone, c.Address, c.CreditLimit, c.LastUpdatedAt, c.LastUpdatedBy)
	if err != nil {
		return writeError(err, "update customer "+c.CustomerID)
	}
	return expectOne(tag)
}

func (r *PgxPartyRepository) SaveProduct(ctx context.Context, p domain.Product) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO products (`+productColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ProductID, p.CompanyID, p.Code, p.Name, p.Unit, p.DefaultPrice, p.Specification,
		p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy)
	if err != nil {
		return writeError(err, "save product")
	}
	return nil
}

func (r *PgxPartyRepository) FindProduct(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	p, err := scanProduct(r.Pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 AND product_id = $2`, companyID, productID))
	if err != nil {
		return nil, readError(err, "find product "+productID)
	}
	return &p, nil
}

func (r *PgxPartyRepository) ListProducts(ctx context.Context, companyID string) ([]domain.Product, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE company_id = $1 ORDER BY code`, companyID)
	if err != nil {
		return nil, readError(err, "list products")
	}
	return collect(rows, "list products", scanProduct)
}

func (r *PgxPartyRepository) FindProductsByIDsInTx(ctx context.Context, tx pgx.Tx, companyID string, productIDs []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	rows, err := r.db(tx).Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 AND product_id = ANY($2)`, companyID, productIDs)
	if err != nil {
		return nil, readError(err, "find products")
	}
	products, err := collect(rows, "find products", scanProduct)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ProductID] = p
	}
	return out, nil
}
