package dto

import (
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one item of an order. A zero discount rate means no discount.
type OrderItemRequest struct {
	ProductID    string          `json:"productID"` // Optional, links the item to inventory
	Description  string          `json:"description" binding:"max=255"`
	Quantity     decimal.Decimal `json:"quantity" binding:"gt=0"`
	UnitPrice    decimal.Decimal `json:"unitPrice" binding:"gte=0"`
	DiscountRate decimal.Decimal `json:"discountRate" binding:"gte=0,lte=1"`
}

// UpdateOrderItemRequest changes an item; omitted fields are kept.
type UpdateOrderItemRequest struct {
	Description  *string          `json:"description" binding:"omitempty,max=255"`
	Quantity     *decimal.Decimal `json:"quantity" binding:"omitempty,gt=0"`
	UnitPrice    *decimal.Decimal `json:"unitPrice" binding:"omitempty,gte=0"`
	DiscountRate *decimal.Decimal `json:"discountRate" binding:"omitempty,gte=0,lte=1"`
}

// ToItemUpdate converts the request to the domain change set.
func (r UpdateOrderItemRequest) ToItemUpdate() domain.ItemUpdate {
	return domain.ItemUpdate{
		Description:  r.Description,
		Quantity:     r.Quantity,
		UnitPrice:    r.UnitPrice,
		DiscountRate: r.DiscountRate,
	}
}

// CreatePurchaseOrderRequest defines the data needed to create a Draft purchase order.
type CreatePurchaseOrderRequest struct {
	SupplierID    string               `json:"supplierID" binding:"required"`
	OrderDate     time.Time            `json:"orderDate"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=Cash BankTransfer Credit"`
	Remark        string               `json:"remark" binding:"max=255"`
	Items         []OrderItemRequest   `json:"items" binding:"dive"`
}

// CreateSalesOrderRequest defines the data needed to create a Draft sales order.
type CreateSalesOrderRequest struct {
	CustomerID    string               `json:"customerID" binding:"required"`
	OrderDate     time.Time            `json:"orderDate"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=Cash BankTransfer Credit"`
	Remark        string               `json:"remark" binding:"max=255"`
	Items         []OrderItemRequest   `json:"items" binding:"dive"`
}

// PostPurchaseOrderRequest optionally assigns warehouse locations per product.
type PostPurchaseOrderRequest struct {
	WarehouseLocations map[string]string `json:"warehouseLocations"`
}

// ListOrdersParams defines query parameters for listing orders.
type ListOrdersParams struct {
	Status  domain.OrderStatus `form:"status" binding:"omitempty,oneof=Draft Posted Paid Collected"`
	PartyID string             `form:"partyID"`
}
