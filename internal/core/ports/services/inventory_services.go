package services

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/dto"
)

// InventoryReaderSvc defines read operations for stock data
type InventoryReaderSvc interface {
	ListItems(ctx context.Context, companyID string, userID string) ([]domain.InventoryItem, error)
	GetItem(ctx context.Context, companyID string, productID string, userID string) (*domain.InventoryItem, error)
	ListTransactions(ctx context.Context, companyID string, productID string, userID string) ([]domain.InventoryTransaction, error)
}

// InventoryWriterSvc defines manual stock movements
type InventoryWriterSvc interface {
	// RecordMovement applies a manual IN or OUT movement in its own transaction.
	RecordMovement(ctx context.Context, companyID string, req dto.InventoryMovementRequest, userID string) (*domain.InventoryTransaction, error)
}

// InventorySvcFacade combines all inventory-related service interfaces
type InventorySvcFacade interface {
	InventoryReaderSvc
	InventoryWriterSvc
}
