package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a row of purchase_orders or sales_orders. PartyID holds the
// supplier_id or customer_id column respectively.
type Order struct {
	OrderID       string          `db:"order_id"`
	CompanyID     string          `db:"company_id"`
	PartyID       string          `db:"party_id"`
	OrderDate     time.Time       `db:"order_date"`
	Status        string          `db:"status"`
	PaymentMethod string          `db:"payment_method"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Remark        string          `db:"remark"`
	PostedBy      *string         `db:"posted_by"`
	PostedAt      *time.Time      `db:"posted_at"`
	AuditFields
}

// OrderItem is a row of purchase_order_items or sales_order_items.
type OrderItem struct {
	ItemID       string          `db:"item_id"`
	OrderID      string          `db:"order_id"`
	LineNo       int             `db:"line_no"`
	ProductID    *string         `db:"product_id"` // Nullable for non-stock lines
	Description  string          `db:"description"`
	Quantity     decimal.Decimal `db:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	DiscountRate decimal.Decimal `db:"discount_rate"`
	Subtotal     decimal.Decimal `db:"subtotal"`
}
