package services

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/dto"
)

// PurchaseOrderSvc defines the purchase order workflow
type PurchaseOrderSvc interface {
	CreatePurchaseOrder(ctx context.Context, companyID string, req dto.CreatePurchaseOrderRequest, userID string) (*domain.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, companyID string, orderID string, userID string) (*domain.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, companyID string, params dto.ListOrdersParams, userID string) ([]domain.PurchaseOrder, error)
	AddPurchaseItem(ctx context.Context, companyID string, orderID string, req dto.OrderItemRequest, userID string) (*domain.PurchaseOrder, error)
	UpdatePurchaseItem(ctx context.Context, companyID string, orderID string, itemID string, req dto.UpdateOrderItemRequest, userID string) (*domain.PurchaseOrder, error)
	RemovePurchaseItem(ctx context.Context, companyID string, orderID string, itemID string, userID string) (*domain.PurchaseOrder, error)

	// PostPurchaseOrder receives the stock and books Dr Inventory / Cr Accounts Payable
	// in one transaction.
	PostPurchaseOrder(ctx context.Context, companyID string, orderID string, req dto.PostPurchaseOrderRequest, userID string) (*domain.PurchasePosting, error)
}

// SalesOrderSvc defines the sales order workflow
type SalesOrderSvc interface {
	CreateSalesOrder(ctx context.Context, companyID string, req dto.CreateSalesOrderRequest, userID string) (*domain.SalesOrder, error)
	GetSalesOrder(ctx context.Context, companyID string, orderID string, userID string) (*domain.SalesOrder, error)
	ListSalesOrders(ctx context.Context, companyID string, params dto.ListOrdersParams, userID string) ([]domain.SalesOrder, error)
	AddSalesItem(ctx context.Context, companyID string, orderID string, req dto.OrderItemRequest, userID string) (*domain.SalesOrder, error)
	UpdateSalesItem(ctx context.Context, companyID string, orderID string, itemID string, req dto.UpdateOrderItemRequest, userID string) (*domain.SalesOrder, error)
	RemoveSalesItem(ctx context.Context, companyID string, orderID string, itemID string, userID string) (*domain.SalesOrder, error)

	// PostSalesOrder checks credit, issues the stock, and books revenue and
	// cost of goods sold in one transaction.
	PostSalesOrder(ctx context.Context, companyID string, orderID string, userID string) (*domain.SalesPosting, error)
}

// OrderSvcFacade combines both order workflows
type OrderSvcFacade interface {
	PurchaseOrderSvc
	SalesOrderSvc
}
