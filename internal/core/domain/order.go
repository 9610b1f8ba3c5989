package domain

import (
	"sort"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderKind distinguishes purchase orders from sales orders.
type OrderKind string

const (
	PurchaseOrderKind OrderKind = "PO"
	SalesOrderKind    OrderKind = "SO"
)

// OrderStatus is the lifecycle state of an order.
// Purchase orders move Draft -> Posted -> Paid, sales orders Draft -> Posted -> Collected.
type OrderStatus string

const (
	OrderDraft     OrderStatus = "Draft"
	OrderPosted    OrderStatus = "Posted"
	OrderPaid      OrderStatus = "Paid"
	OrderCollected OrderStatus = "Collected"
)

// PaymentMethod is how an order or a settlement is paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentBankTransfer PaymentMethod = "BankTransfer"
	PaymentCredit       PaymentMethod = "Credit"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentCredit:
		return true
	}
	return false
}

// CashAccountCode is the core account that money moves through for this method.
func (m PaymentMethod) CashAccountCode() string {
	if m == PaymentCash {
		return CodeCash
	}
	return CodeBankDeposits
}

// DefaultDiscountRate is applied when an item carries no discount.
var DefaultDiscountRate = decimal.NewFromInt(1)

// OrderItem is one line of an order. ProductID is empty for non-stock lines.
type OrderItem struct {
	ItemID       string          `json:"itemID"`
	OrderID      string          `json:"orderID"`
	LineNo       int             `json:"lineNo"`
	ProductID    string          `json:"productID,omitempty"`
	Description  string          `json:"description,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// NewOrderItem validates the amounts and computes the subtotal.
// A zero discount rate means no discount.
func NewOrderItem(productID, description string, quantity, unitPrice, discountRate decimal.Decimal) (OrderItem, error) {
	item := OrderItem{
		ItemID:       uuid.NewString(),
		ProductID:    productID,
		Description:  description,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		DiscountRate: discountRate,
	}
	if err := item.normalize(); err != nil {
		return OrderItem{}, err
	}
	return item, nil
}

func (i *OrderItem) normalize() error {
	i.Quantity = RoundQuantity(i.Quantity)
	i.UnitPrice = RoundMoney(i.UnitPrice)
	if !i.Quantity.IsPositive() {
		return apperrors.NewValidationError("quantity", "item quantity must be positive")
	}
	if i.UnitPrice.IsNegative() {
		return apperrors.NewValidationError("unitPrice", "unit price cannot be negative")
	}
	if i.DiscountRate.IsZero() {
		i.DiscountRate = DefaultDiscountRate
	}
	if i.DiscountRate.IsNegative() || i.DiscountRate.GreaterThan(DefaultDiscountRate) {
		return apperrors.NewValidationError("discountRate", "discount rate must be within (0, 1]")
	}
	i.DiscountRate = i.DiscountRate.Round(4)
	i.Subtotal = RoundMoney(i.Quantity.Mul(i.UnitPrice).Mul(i.DiscountRate))
	return nil
}

// UnitCost is the discounted price that becomes the inbound unit cost on purchase.
func (i OrderItem) UnitCost() decimal.Decimal {
	return i.UnitPrice.Mul(i.DiscountRate)
}

// ItemUpdate carries optional changes to an item; nil fields are left alone.
type ItemUpdate struct {
	Description  *string
	Quantity     *decimal.Decimal
	UnitPrice    *decimal.Decimal
	DiscountRate *decimal.Decimal
}

// Apply returns a copy of the item with the changes applied and the subtotal recomputed.
func (u ItemUpdate) Apply(item OrderItem) (OrderItem, error) {
	if u.Description != nil {
		item.Description = *u.Description
	}
	if u.Quantity != nil {
		item.Quantity = *u.Quantity
	}
	if u.UnitPrice != nil {
		item.UnitPrice = *u.UnitPrice
	}
	if u.DiscountRate != nil {
		item.DiscountRate = *u.DiscountRate
	}
	if err := item.normalize(); err != nil {
		return OrderItem{}, err
	}
	return item, nil
}

// RecalculateTotal is the sum of the item subtotals.
func RecalculateTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return RoundMoney(total)
}

// Order holds what purchase and sales orders share. TotalAmount is derived
// from Items and is only changed through SetItems.
type Order struct {
	OrderID       string          `json:"orderID"`
	CompanyID     string          `json:"companyID"`
	Kind          OrderKind       `json:"kind"`
	OrderDate     time.Time       `json:"orderDate"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Remark        string          `json:"remark,omitempty"`
	Items         []OrderItem     `json:"items"`
	PostedBy      string          `json:"postedBy,omitempty"`
	PostedAt      *time.Time      `json:"postedAt,omitempty"`
	AuditFields
}

// PurchaseOrder is an order placed with a supplier.
type PurchaseOrder struct {
	Order
	SupplierID string `json:"supplierID"`
}

// SalesOrder is an order placed by a customer.
type SalesOrder struct {
	Order
	CustomerID string `json:"customerID"`
}

// NewOrder starts a Draft order.
func NewOrder(kind OrderKind, companyID string, date time.Time, method PaymentMethod, remark, userID string, now time.Time) (Order, error) {
	if !method.Valid() {
		return Order{}, apperrors.NewValidationError("paymentMethod", "unknown payment method %q", method)
	}
	if date.IsZero() {
		date = now
	}
	return Order{
		OrderID:       uuid.NewString(),
		CompanyID:     companyID,
		Kind:          kind,
		OrderDate:     date,
		Status:        OrderDraft,
		PaymentMethod: method,
		TotalAmount:   decimal.Zero,
		Remark:        remark,
		AuditFields:   AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
	}, nil
}

// ShortID is the prefix used in generated journal descriptions.
func (o *Order) ShortID() string {
	if len(o.OrderID) <= 8 {
		return o.OrderID
	}
	return o.OrderID[:8]
}

// Resource names the order kind in error payloads.
func (o *Order) Resource() string {
	if o.Kind == SalesOrderKind {
		return "sales_order"
	}
	return "purchase_order"
}

// EnsureDraft fails with AlreadyPostedError once the order left Draft.
func (o *Order) EnsureDraft() error {
	if o.Status != OrderDraft {
		return &apperrors.AlreadyPostedError{Resource: o.Resource(), ID: o.OrderID, Status: string(o.Status)}
	}
	return nil
}

// SetItems replaces the items, renumbers them and recomputes the total.
func (o *Order) SetItems(items []OrderItem) {
	o.Items = items
	for i := range o.Items {
		o.Items[i].OrderID = o.OrderID
		o.Items[i].LineNo = i + 1
	}
	o.TotalAmount = RecalculateTotal(o.Items)
}

// FindItem returns the index of the item or -1.
func (o *Order) FindItem(itemID string) int {
	for i, it := range o.Items {
		if it.ItemID == itemID {
			return i
		}
	}
	return -1
}

// MarkPosted moves a Draft order to Posted.
func (o *Order) MarkPosted(userID string, at time.Time) error {
	if err := o.EnsureDraft(); err != nil {
		return err
	}
	o.Status = OrderPosted
	o.PostedBy = userID
	o.PostedAt = &at
	o.LastUpdatedAt = at
	o.LastUpdatedBy = userID
	return nil
}

// SettledStatus is the terminal state reached on full settlement.
func (o *Order) SettledStatus() OrderStatus {
	if o.Kind == SalesOrderKind {
		return OrderCollected
	}
	return OrderPaid
}

// MarkSettled moves a Posted order to its settled state.
func (o *Order) MarkSettled(userID string, at time.Time) error {
	if o.Status != OrderPosted {
		return apperrors.NewValidationError("status", "only posted orders can be settled, order is %s", o.Status)
	}
	o.Status = o.SettledStatus()
	o.LastUpdatedAt = at
	o.LastUpdatedBy = userID
	return nil
}

// StockLines returns the items linked to a product, ordered by product id so
// that inventory rows are always locked in the same order.
func (o *Order) StockLines() []OrderItem {
	out := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		if it.ProductID != "" {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// ProductIDs lists the distinct products referenced by the order in sorted order.
func (o *Order) ProductIDs() []string {
	var ids []string
	for _, it := range o.StockLines() {
		if len(ids) == 0 || ids[len(ids)-1] != it.ProductID {
			ids = append(ids, it.ProductID)
		}
	}
	return ids
}

// PurchasePosting is the outcome of posting a purchase order.
type PurchasePosting struct {
	Order     PurchaseOrder          `json:"order"`
	Journal   JournalEntry           `json:"journal"`
	Movements []InventoryTransaction `json:"movements"`
}

// SalesPosting is the outcome of posting a sales order. CostJournal is nil
// when no item is linked to a product.
type SalesPosting struct {
	Order          SalesOrder             `json:"order"`
	RevenueJournal JournalEntry           `json:"revenueJournal"`
	CostJournal    *JournalEntry          `json:"costJournal,omitempty"`
	TotalCost      decimal.Decimal        `json:"totalCost"`
	Movements      []InventoryTransaction `json:"movements"`
}
