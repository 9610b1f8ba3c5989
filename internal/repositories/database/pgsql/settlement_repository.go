package pgsql

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/SscSPs/smb_books_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxSettlementRepository struct {
	BaseRepository
}

func newPgxSettlementRepository(pool *pgxpool.Pool) *PgxSettlementRepository {
	return &PgxSettlementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettlementRepositoryFacade = (*PgxSettlementRepository)(nil)

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	var orderID, supplierID, journalID *string
	err := row.Scan(&p.PaymentID, &p.CompanyID, &orderID, &supplierID, &p.PaymentDate,
		&p.Amount, &p.Method, &journalID, &p.Remark, &p.CreatedAt, &p.CreatedBy)
	p.OrderID = mapping.StringValue(orderID)
	p.SupplierID = mapping.StringValue(supplierID)
	p.JournalID = mapping.StringValue(journalID)
	return p, err
}

func scanReceipt(row pgx.Row) (domain.Receipt, error) {
	var r domain.Receipt
	var orderID, customerID, journalID *string
	err := row.Scan(&r.ReceiptID, &r.CompanyID, &orderID, &customerID, &r.ReceiptDate,
		&r.Amount, &r.Method, &journalID, &r.Remark, &r.CreatedAt, &r.CreatedBy)
	r.OrderID = mapping.StringValue(orderID)
	r.CustomerID = mapping.StringValue(customerID)
	r.JournalID = mapping.StringValue(journalID)
	return r, err
}

func (r *PgxSettlementRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, p domain.Payment) error {
	_, err := r.db(tx).Exec(ctx, `
		INSERT INTO payments (payment_id, company_id, order_id, supplier_id, payment_date, amount, method,
			journal_id, remark, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.PaymentID, p.CompanyID, mapping.NullableString(p.OrderID), mapping.NullableString(p.SupplierID),
		p.PaymentDate, p.Amount, p.Method, mapping.NullableString(p.JournalID), p.Remark, p.CreatedAt, p.CreatedBy)
	if err != nil {
		return writeError(err, "save payment")
	}
	return nil
}

// ListPayments returns the company's payments, newest first. An empty
// orderID lists all of them.
func (r *PgxSettlementRepository) ListPayments(ctx context.Context, companyID, orderID string) ([]domain.Payment, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT payment_id, company_id, order_id, supplier_id, payment_date, amount, method,
			journal_id, remark, created_at, created_by
		FROM payments
		WHERE company_id = $1 AND ($2 = '' OR order_id = $2)
		ORDER BY payment_date DESC, created_at DESC`, companyID, orderID)
	if err != nil {
		return nil, readError(err, "list payments")
	}
	return collect(rows, "list payments", scanPayment)
}

func (r *PgxSettlementRepository) SumPaymentsByOrdersInTx(ctx context.Context, tx pgx.Tx, companyID string, orderIDs []string) (map[string]decimal.Decimal, error) {
	return r.sumByOrders(ctx, r.db(tx), "payments", companyID, orderIDs)
}

func (r *PgxSettlementRepository) SaveReceiptInTx(ctx context.Context, tx pgx.Tx, rc domain.Receipt) error {
	_, err := r.db(tx).Exec(ctx, `
		INSERT INTO receipts (receipt_id, company_id, order_id, customer_id, receipt_date, amount, method,
			journal_id, remark, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rc.ReceiptID, rc.CompanyID, mapping.NullableString(rc.OrderID), mapping.NullableString(rc.CustomerID),
		rc.ReceiptDate, rc.Amount, rc.Method, mapping.NullableString(rc.JournalID), rc.Remark, rc.CreatedAt, rc.CreatedBy)
	if err != nil {
		return writeError(err, "save receipt")
	}
	return nil
}

func (r *PgxSettlementRepository) ListReceipts(ctx context.Context, companyID, orderID string) ([]domain.Receipt, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT receipt_id, company_id, order_id, customer_id, receipt_date, amount, method,
			journal_id, remark, created_at, created_by
		FROM receipts
		WHERE company_id = $1 AND ($2 = '' OR order_id = $2)
		ORDER BY receipt_date DESC, created_at DESC`, companyID, orderID)
	if err != nil {
		return nil, readError(err, "list receipts")
	}
	return collect(rows, "list receipts", scanReceipt)
}

func (r *PgxSettlementRepository) SumReceiptsByOrdersInTx(ctx context.Context, tx pgx.Tx, companyID string, orderIDs []string) (map[string]decimal.Decimal, error) {
	return r.sumByOrders(ctx, r.db(tx), "receipts", companyID, orderIDs)
}

// sumByOrders totals settlements per order. Every requested order is present
// in the result, zero when nothing was settled.
func (r *PgxSettlementRepository) sumByOrders(ctx context.Context, q querier, table, companyID string, orderIDs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(orderIDs))
	for _, id := range orderIDs {
		out[id] = decimal.Zero
	}
	if len(orderIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `
		SELECT order_id, SUM(amount) FROM `+table+`
		WHERE company_id = $1 AND order_id = ANY($2)
		GROUP BY order_id`, companyID, orderIDs)
	if err != nil {
		return nil, readError(err, "sum "+table)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var sum decimal.Decimal
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, readError(err, "scan "+table+" sum")
		}
		out[id] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, readError(err, "sum "+table)
	}
	return out, nil
}

// OutstandingCreditInTx sums what the customer still owes on posted credit
// sales, ignoring excludeOrderID.
func (r *PgxSettlementRepository) OutstandingCreditInTx(ctx context.Context, tx pgx.Tx, companyID, customerID, excludeOrderID string) (decimal.Decimal, error) {
	var debt decimal.Decimal
	err := r.db(tx).QueryRow(ctx, `
		SELECT COALESCE(SUM(GREATEST(o.total_amount - COALESCE(rc.received, 0), 0)), 0)
		FROM sales_orders o
		LEFT JOIN (
			SELECT order_id, SUM(amount) AS received
			FROM receipts WHERE company_id = $1 AND order_id IS NOT NULL
			GROUP BY order_id
		) rc ON rc.order_id = o.order_id
		WHERE o.company_id = $1 AND o.customer_id = $2 AND o.order_id <> $3
			AND o.status = $4 AND o.payment_method = $5`,
		companyID, customerID, excludeOrderID, domain.OrderPosted, domain.PaymentCredit).Scan(&debt)
	if err != nil {
		return decimal.Zero, readError(err, "compute outstanding credit")
	}
	return debt, nil
}
