package domain

import (
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType is the direction of an inventory movement.
type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// InventorySource identifies what caused an inventory movement.
type InventorySource string

const (
	InventorySourcePO         InventorySource = "PO"
	InventorySourceSO         InventorySource = "SO"
	InventorySourceManual     InventorySource = "Manual"
	InventorySourceAdjustment InventorySource = "Adjustment"
)

func (s InventorySource) Valid() bool {
	switch s {
	case InventorySourcePO, InventorySourceSO, InventorySourceManual, InventorySourceAdjustment:
		return true
	}
	return false
}

// InventoryItem holds the running quantity and weighted-average cost of one
// product in one company. It only changes through Apply* calls.
type InventoryItem struct {
	InventoryID string          `json:"inventoryID"`
	CompanyID   string          `json:"companyID"`
	ProductID   string          `json:"productID"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"averageCost"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// InventoryTransaction is an append-only movement record. Quantity is signed:
// positive for IN, negative for OUT.
type InventoryTransaction struct {
	TransactionID     string          `json:"transactionID"`
	CompanyID         string          `json:"companyID"`
	ProductID         string          `json:"productID"`
	InventoryID       string          `json:"inventoryID"`
	Type              MovementType    `json:"type"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	SourceType        InventorySource `json:"sourceType"`
	SourceID          string          `json:"sourceID,omitempty"`
	WarehouseLocation string          `json:"warehouseLocation,omitempty"`
	Remark            string          `json:"remark,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	CreatedBy         string          `json:"createdBy"`
}

// MovementRef describes the origin of a movement.
type MovementRef struct {
	SourceType        InventorySource
	SourceID          string
	WarehouseLocation string
	Remark            string
	UserID            string
}

// NewInventoryItem creates the empty item used on a product's first movement.
func NewInventoryItem(companyID, productID string, now time.Time) *InventoryItem {
	return &InventoryItem{
		InventoryID: uuid.NewString(),
		CompanyID:   companyID,
		ProductID:   productID,
		Quantity:    decimal.Zero,
		AverageCost: decimal.Zero,
		UpdatedAt:   now,
	}
}

// WeightedAverageCost returns (oldQty*oldCost + inQty*unitCost) / (oldQty+inQty),
// or unitCost when the combined quantity is zero.
func WeightedAverageCost(oldQty, oldCost, inQty, unitCost decimal.Decimal) decimal.Decimal {
	total := oldQty.Add(inQty)
	if total.IsZero() {
		return RoundMoney(unitCost)
	}
	value := oldQty.Mul(oldCost).Add(inQty.Mul(unitCost))
	return RoundMoney(value.Div(total))
}

// HasCostBasis reports whether an average cost has ever been established.
func (it *InventoryItem) HasCostBasis() bool {
	return it.AverageCost.IsPositive()
}

// CheckOutbound validates an outbound movement without applying it.
func (it *InventoryItem) CheckOutbound(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return apperrors.NewValidationError("quantity", "outbound quantity must be positive")
	}
	if it.Quantity.LessThan(quantity) {
		return &apperrors.InsufficientStockError{ProductID: it.ProductID, Requested: quantity, Available: it.Quantity}
	}
	if !it.HasCostBasis() {
		return &apperrors.NoCostBasisError{ProductID: it.ProductID}
	}
	return nil
}

// ApplyInbound adds stock at unitCost and recomputes the weighted average.
func (it *InventoryItem) ApplyInbound(quantity, unitCost decimal.Decimal, ref MovementRef, now time.Time) (InventoryTransaction, error) {
	quantity = RoundQuantity(quantity)
	if !quantity.IsPositive() {
		return InventoryTransaction{}, apperrors.NewValidationError("quantity", "inbound quantity must be positive")
	}
	if unitCost.IsNegative() {
		return InventoryTransaction{}, apperrors.NewValidationError("unitCost", "unit cost cannot be negative")
	}
	unitCost = RoundMoney(unitCost)
	it.AverageCost = WeightedAverageCost(it.Quantity, it.AverageCost, quantity, unitCost)
	it.Quantity = it.Quantity.Add(quantity)
	it.UpdatedAt = now
	return it.movement(MovementIn, quantity, unitCost, ref, now), nil
}

// ApplyOutbound removes stock at the current average cost. The average is unchanged.
func (it *InventoryItem) ApplyOutbound(quantity decimal.Decimal, ref MovementRef, now time.Time) (InventoryTransaction, error) {
	quantity = RoundQuantity(quantity)
	if err := it.CheckOutbound(quantity); err != nil {
		return InventoryTransaction{}, err
	}
	it.Quantity = it.Quantity.Sub(quantity)
	it.UpdatedAt = now
	return it.movement(MovementOut, quantity.Neg(), it.AverageCost, ref, now), nil
}

func (it *InventoryItem) movement(typ MovementType, signedQty, unitCost decimal.Decimal, ref MovementRef, now time.Time) InventoryTransaction {
	return InventoryTransaction{
		TransactionID:     uuid.NewString(),
		CompanyID:         it.CompanyID,
		ProductID:         it.ProductID,
		InventoryID:       it.InventoryID,
		Type:              typ,
		Quantity:          signedQty,
		UnitCost:          unitCost,
		SourceType:        ref.SourceType,
		SourceID:          ref.SourceID,
		WarehouseLocation: ref.WarehouseLocation,
		Remark:            ref.Remark,
		CreatedAt:         now,
		CreatedBy:         ref.UserID,
	}
}

// ReplayQuantity sums signed movement quantities; it equals the item's quantity
// when the movements are complete.
func ReplayQuantity(txns []InventoryTransaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		sum = sum.Add(t.Quantity)
	}
	return sum
}
