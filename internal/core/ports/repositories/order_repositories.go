package repositories

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// OrderFilter narrows an order listing. Empty fields match everything.
type OrderFilter struct {
	Status        domain.OrderStatus
	PartyID       string
	PaymentMethod domain.PaymentMethod
}

// PurchaseOrderRepository defines persistence for purchase orders and their items
type PurchaseOrderRepository interface {
	// FindPurchaseOrder retrieves an order with its items.
	FindPurchaseOrder(ctx context.Context, companyID, orderID string) (*domain.PurchaseOrder, error)

	// ListPurchaseOrders retrieves orders without items, newest first.
	ListPurchaseOrders(ctx context.Context, companyID string, filter OrderFilter) ([]domain.PurchaseOrder, error)

	// SavePurchaseOrderInTx persists a new order and its items.
	SavePurchaseOrderInTx(ctx context.Context, tx pgx.Tx, order domain.PurchaseOrder) error

	// LockPurchaseOrder retrieves an order with its items and locks the order row.
	LockPurchaseOrder(ctx context.Context, tx pgx.Tx, companyID, orderID string) (*domain.PurchaseOrder, error)

	// UpdatePurchaseOrderInTx writes the header and replaces the items.
	UpdatePurchaseOrderInTx(ctx context.Context, tx pgx.Tx, order domain.PurchaseOrder) error
}

// SalesOrderRepository defines persistence for sales orders and their items
type SalesOrderRepository interface {
	FindSalesOrder(ctx context.Context, companyID, orderID string) (*domain.SalesOrder, error)
	ListSalesOrders(ctx context.Context, companyID string, filter OrderFilter) ([]domain.SalesOrder, error)
	SaveSalesOrderInTx(ctx context.Context, tx pgx.Tx, order domain.SalesOrder) error
	LockSalesOrder(ctx context.Context, tx pgx.Tx, companyID, orderID string) (*domain.SalesOrder, error)
	UpdateSalesOrderInTx(ctx context.Context, tx pgx.Tx, order domain.SalesOrder) error
}

// OrderRepositoryFacade combines both order repositories
type OrderRepositoryFacade interface {
	PurchaseOrderRepository
	SalesOrderRepository
}
