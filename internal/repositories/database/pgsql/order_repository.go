package pgsql

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/SscSPs/smb_books_app/internal/models"
	"github.com/SscSPs/smb_books_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// orderTable names the tables of one order kind. Purchase and sales orders
// share a row shape and differ only in the party column.
type orderTable struct {
	kind   domain.OrderKind
	header string
	items  string
	party  string
}

var (
	purchaseTable = orderTable{kind: domain.PurchaseOrderKind, header: "purchase_orders", items: "purchase_order_items", party: "supplier_id"}
	salesTable    = orderTable{kind: domain.SalesOrderKind, header: "sales_orders", items: "sales_order_items", party: "customer_id"}
)

func (t orderTable) columns() string {
	return `order_id, company_id, ` + t.party + `, order_date, status, payment_method, total_amount, remark,
	posted_by, posted_at, created_at, created_by, last_updated_at, last_updated_by`
}

type PgxOrderRepository struct {
	BaseRepository
}

func newPgxOrderRepository(pool *pgxpool.Pool) *PgxOrderRepository {
	return &PgxOrderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)

func scanOrder(row pgx.Row) (models.Order, error) {
	var m models.Order
	err := row.Scan(
		&m.OrderID,
		&m.CompanyID,
		&m.PartyID,
		&m.OrderDate,
		&m.Status,
		&m.PaymentMethod,
		&m.TotalAmount,
		&m.Remark,
		&m.PostedBy,
		&m.PostedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxOrderRepository) loadItems(ctx context.Context, q querier, t orderTable, orderID string) ([]models.OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT item_id, order_id, line_no, product_id, description, quantity, unit_price, discount_rate, subtotal
		FROM `+t.items+` WHERE order_id = $1 ORDER BY line_no`, orderID)
	if err != nil {
		return nil, readError(err, "load order items")
	}
	return collect(rows, "load order items", func(row pgx.Row) (models.OrderItem, error) {
		var it models.OrderItem
		err := row.Scan(&it.ItemID, &it.OrderID, &it.LineNo, &it.ProductID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.DiscountRate, &it.Subtotal)
		return it, err
	})
}

// find loads an order with its items, locking the header row when lock is set.
func (r *PgxOrderRepository) find(ctx context.Context, q querier, t orderTable, companyID, orderID string, lock bool) (domain.Order, string, error) {
	query := `SELECT ` + t.columns() + ` FROM ` + t.header + ` WHERE company_id = $1 AND order_id = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	m, err := scanOrder(q.QueryRow(ctx, query, companyID, orderID))
	if err != nil {
		return domain.Order{}, "", readError(err, "find order "+orderID)
	}
	items, err := r.loadItems(ctx, q, t, orderID)
	if err != nil {
		return domain.Order{}, "", err
	}
	return mapping.ToDomainOrder(t.kind, m, items), m.PartyID, nil
}

func (r *PgxOrderRepository) list(ctx context.Context, t orderTable, companyID string, filter portsrepo.OrderFilter) ([]models.Order, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+t.columns()+` FROM `+t.header+`
		WHERE company_id = $1
			AND ($2 = '' OR status = $2)
			AND ($3 = '' OR `+t.party+` = $3)
			AND ($4 = '' OR payment_method = $4)
		ORDER BY order_date DESC, created_at DESC, order_id DESC`,
		companyID, string(filter.Status), filter.PartyID, string(filter.PaymentMethod))
	if err != nil {
		return nil, readError(err, "list orders")
	}
	return collect(rows, "list orders", scanOrder)
}

func (r *PgxOrderRepository) queueItems(batch *pgx.Batch, t orderTable, order domain.Order) {
	for i, item := range order.Items {
		item.OrderID = order.OrderID
		item.LineNo = i + 1
		m := mapping.ToModelOrderItem(item)
		batch.Queue(`INSERT INTO `+t.items+`
			(item_id, order_id, line_no, product_id, description, quantity, unit_price, discount_rate, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			m.ItemID, m.OrderID, m.LineNo, m.ProductID, m.Description, m.Quantity, m.UnitPrice, m.DiscountRate, m.Subtotal)
	}
}

func (r *PgxOrderRepository) save(ctx context.Context, q querier, t orderTable, order domain.Order, partyID string) error {
	m := mapping.ToModelOrder(order, partyID)
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO `+t.header+` (`+t.columns()+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		m.OrderID, m.CompanyID, m.PartyID, m.OrderDate, m.Status, m.PaymentMethod, m.TotalAmount, m.Remark,
		m.PostedBy, m.PostedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	r.queueItems(batch, t, order)
	return execBatch(ctx, q, batch, "save order "+order.OrderID)
}

// update rewrites the header and replaces the items.
func (r *PgxOrderRepository) update(ctx context.Context, q querier, t orderTable, order domain.Order) error {
	m := mapping.ToModelOrder(order, "")
	tag, err := q.Exec(ctx, `UPDATE `+t.header+`
		SET order_date = $3, status = $4, payment_method = $5, total_amount = $6, remark = $7,
			posted_by = $8, posted_at = $9, last_updated_at = $10, last_updated_by = $11
		WHERE company_id = $1 AND order_id = $2`,
		m.CompanyID, m.OrderID, m.OrderDate, m.Status, m.PaymentMethod, m.TotalAmount, m.Remark,
		m.PostedBy, m.PostedAt, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return writeError(err, "update order "+order.OrderID)
	}
	if err := expectOne(tag); err != nil {
		return err
	}
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM `+t.items+` WHERE order_id = $1`, order.OrderID)
	r.queueItems(batch, t, order)
	return execBatch(ctx, q, batch, "replace order items")
}

func (r *PgxOrderRepository) FindPurchaseOrder(ctx context.Context, companyID, orderID string) (*domain.PurchaseOrder, error) {
	o, supplierID, err := r.find(ctx, r.Pool, purchaseTable, companyID, orderID, false)
	if err != nil {
		return nil, err
	}
	return &domain.PurchaseOrder{Order: o, SupplierID: supplierID}, nil
}

func (r *PgxOrderRepository) LockPurchaseOrder(ctx context.Context, tx pgx.Tx, companyID, orderID string) (*domain.PurchaseOrder, error) {
	o, supplierID, err := r.find(ctx, r.db(tx), purchaseTable, companyID, orderID, true)
	if err != nil {
		return nil, err
	}
	return &domain.PurchaseOrder{Order: o, SupplierID: supplierID}, nil
}

func (r *PgxOrderRepository) ListPurchaseOrders(ctx context.Context, companyID string, filter portsrepo.OrderFilter) ([]domain.PurchaseOrder, error) {
	rows, err := r.list(ctx, purchaseTable, companyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PurchaseOrder, len(rows))
	for i, m := range rows {
		o := mapping.ToDomainOrder(domain.PurchaseOrderKind, m, nil)
		o.Items = nil
		out[i] = domain.PurchaseOrder{Order: o, SupplierID: m.PartyID}
	}
	return out, nil
}

func (r *PgxOrderRepository) SavePurchaseOrderInTx(ctx context.Context, tx pgx.Tx, order domain.PurchaseOrder) error {
	return r.save(ctx, r.db(tx), purchaseTable, order.Order, order.SupplierID)
}

func (r *PgxOrderRepository) UpdatePurchaseOrderInTx(ctx context.Context, tx pgx.Tx, order domain.PurchaseOrder) error {
	return r.update(ctx, r.db(tx), purchaseTable, order.Order)
}

func (r *PgxOrderRepository) FindSalesOrder(ctx context.Context, companyID, orderID string) (*domain.SalesOrder, error) {
	o, customerID, err := r.find(ctx, r.Pool, salesTable, companyID, orderID, false)
	if err != nil {
		return nil, err
	}
	return &domain.SalesOrder{Order: o, CustomerID: customerID}, nil
}

func (r *PgxOrderRepository) LockSalesOrder(ctx context.Context, tx pgx.Tx, companyID, orderID string) (*domain.SalesOrder, error) {
	o, customerID, err := r.find(ctx, r.db(tx), salesTable, companyID, orderID, true)
	if err != nil {
		return nil, err
	}
	return &domain.SalesOrder{Order: o, CustomerID: customerID}, nil
}

func (r *PgxOrderRepository) ListSalesOrders(ctx context.Context, companyID string, filter portsrepo.OrderFilter) ([]domain.SalesOrder, error) {
	rows, err := r.list(ctx, salesTable, companyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SalesOrder, len(rows))
	for i, m := range rows {
		o := mapping.ToDomainOrder(domain.SalesOrderKind, m, nil)
		o.Items = nil
		out[i] = domain.SalesOrder{Order: o, CustomerID: m.PartyID}
	}
	return out, nil
}

func (r *PgxOrderRepository) SaveSalesOrderInTx(ctx context.Context, tx pgx.Tx, order domain.SalesOrder) error {
	return r.save(ctx, r.db(tx), salesTable, order.Order, order.CustomerID)
}

func (r *PgxOrderRepository) UpdateSalesOrderInTx(ctx context.Context, tx pgx.Tx, order domain.SalesOrder) error {
	return r.update(ctx, r.db(tx), salesTable, order.Order)
}
