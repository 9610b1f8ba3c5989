package repositories

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// InventoryReader defines read operations for stock data
type InventoryReader interface {
	// FindItemByProduct retrieves the inventory item of a product.
	FindItemByProduct(ctx context.Context, companyID, productID string) (*domain.InventoryItem, error)

	// ListItems retrieves every inventory item of a company.
	ListItems(ctx context.Context, companyID string) ([]domain.InventoryItem, error)

	// ListTransactionsByProduct retrieves a product's movements in creation order.
	ListTransactionsByProduct(ctx context.Context, companyID, productID string) ([]domain.InventoryTransaction, error)
}

// InventoryTransactionSupport defines operations used while applying movements
type InventoryTransactionSupport interface {
	// LockItemsForUpdate locks the items of the given products in product id
	// order and returns them keyed by product id. Products without an item get
	// an empty one first, so concurrent first receipts of a product serialize
	// on the same row. The empty item disappears with the tx on rollback.
	LockItemsForUpdate(ctx context.Context, tx pgx.Tx, companyID string, productIDs []string) (map[string]domain.InventoryItem, error)

	// SaveItemsInTx inserts or updates the items.
	SaveItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.InventoryItem) error

	// SaveTransactionsInTx appends movements.
	SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, txns []domain.InventoryTransaction) error
}

// InventoryRepositoryFacade combines all inventory-related repository interfaces
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryTransactionSupport
}
