package pgsql

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/SscSPs/smb_books_app/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInventoryRepository struct {
	BaseRepository
}

func newPgxInventoryRepository(pool *pgxpool.Pool) *PgxInventoryRepository {
	return &PgxInventoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

const (
	inventoryItemColumns = `inventory_id, company_id, product_id, quantity, average_cost, updated_at`
	inventoryTxnColumns  = `transaction_id, company_id, product_id, inventory_id, movement_type, quantity, unit_cost,
	source_type, source_id, warehouse_location, remark, created_at, created_by`
)

func scanInventoryItem(row pgx.Row) (domain.InventoryItem, error) {
	var it domain.InventoryItem
	err := row.Scan(&it.InventoryID, &it.CompanyID, &it.ProductID, &it.Quantity, &it.AverageCost, &it.UpdatedAt)
	return it, err
}

func scanInventoryTxn(row pgx.Row) (domain.InventoryTransaction, error) {
	var t domain.InventoryTransaction
	var sourceID *string
	err := row.Scan(&t.TransactionID, &t.CompanyID, &t.ProductID, &t.InventoryID, &t.Type, &t.Quantity, &t.UnitCost,
		&t.SourceType, &sourceID, &t.WarehouseLocation, &t.Remark, &t.CreatedAt, &t.CreatedBy)
	t.SourceID = mapping.StringValue(sourceID)
	return t, err
}

func (r *PgxInventoryRepository) FindItemByProduct(ctx context.Context, companyID, productID string) (*domain.InventoryItem, error) {
	it, err := scanInventoryItem(r.Pool.QueryRow(ctx,
		`SELECT `+inventoryItemColumns+` FROM inventory_items WHERE company_id = $1 AND product_id = $2`, companyID, productID))
	if err != nil {
		return nil, readError(err, "find inventory item")
	}
	return &it, nil
}

func (r *PgxInventoryRepository) ListItems(ctx context.Context, companyID string) ([]domain.InventoryItem, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+inventoryItemColumns+` FROM inventory_items WHERE company_id = $1 ORDER BY product_id`, companyID)
	if err != nil {
		return nil, readError(err, "list inventory items")
	}
	return collect(rows, "list inventory items", scanInventoryItem)
}

func (r *PgxInventoryRepository) ListTransactionsByProduct(ctx context.Context, companyID, productID string) ([]domain.InventoryTransaction, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+inventoryTxnColumns+` FROM inventory_transactions
		WHERE company_id = $1 AND product_id = $2 ORDER BY seq`, companyID, productID)
	if err != nil {
		return nil, readError(err, "list inventory transactions")
	}
	return collect(rows, "list inventory transactions", scanInventoryTxn)
}

// ensureItemsBatch inserts an empty row for every product that has none yet.
// Existing rows are left untouched, so the following FOR UPDATE sees exactly
// one row per product whichever transaction created it.
func ensureItemsBatch(companyID string, productIDs []string, now time.Time) *pgx.Batch {
	ids := append([]string(nil), productIDs...)
	sort.Strings(ids)
	batch := &pgx.Batch{}
	for i, pid := range ids {
		if i > 0 && ids[i-1] == pid {
			continue
		}
		batch.Queue(`INSERT INTO inventory_items (`+inventoryItemColumns+`) VALUES ($1, $2, $3, 0, 0, $4)
			ON CONFLICT (company_id, product_id) DO NOTHING`,
			uuid.NewString(), companyID, pid, now)
	}
	return batch
}

// LockItemsForUpdate creates missing rows, then locks all of them in product id order.
func (r *PgxInventoryRepository) LockItemsForUpdate(ctx context.Context, tx pgx.Tx, companyID string, productIDs []string) (map[string]domain.InventoryItem, error) {
	out := make(map[string]domain.InventoryItem, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	if err := execBatch(ctx, r.db(tx), ensureItemsBatch(companyID, productIDs, time.Now().UTC()), "create inventory items"); err != nil {
		return nil, err
	}
	rows, err := r.db(tx).Query(ctx, `SELECT `+inventoryItemColumns+` FROM inventory_items
		WHERE company_id = $1 AND product_id = ANY($2) ORDER BY product_id FOR UPDATE`, companyID, productIDs)
	if err != nil {
		return nil, readError(err, "lock inventory items")
	}
	items, err := collect(rows, "lock inventory items", scanInventoryItem)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.ProductID] = it
	}
	return out, nil
}

// SaveItemsInTx upserts items on (company_id, product_id).
func (r *PgxInventoryRepository) SaveItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.InventoryItem) error {
	sorted := append([]domain.InventoryItem(nil), items...)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].ProductID < sorted[b].ProductID })

	batch := &pgx.Batch{}
	for _, it := range sorted {
		batch.Queue(`INSERT INTO inventory_items (`+inventoryItemColumns+`) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (company_id, product_id) DO UPDATE
			SET quantity = EXCLUDED.quantity, average_cost = EXCLUDED.average_cost, updated_at = EXCLUDED.updated_at`,
			it.InventoryID, it.CompanyID, it.ProductID, it.Quantity, it.AverageCost, it.UpdatedAt)
	}
	return execBatch(ctx, r.db(tx), batch, "save inventory items")
}

func (r *PgxInventoryRepository) SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, txns []domain.InventoryTransaction) error {
	batch := &pgx.Batch{}
	for _, t := range txns {
		batch.Queue(`INSERT INTO inventory_transactions (`+inventoryTxnColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			t.TransactionID, t.CompanyID, t.ProductID, t.InventoryID, t.Type, t.Quantity, t.UnitCost,
			t.SourceType, mapping.NullableString(t.SourceID), t.WarehouseLocation, t.Remark, t.CreatedAt, t.CreatedBy)
	}
	return execBatch(ctx, r.db(tx), batch, "save inventory transactions")
}
