package dto

import (
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventoryMovementRequest records a manual stock movement. UnitCost is
// required for IN movements; OUT movements are costed at the current average.
type InventoryMovementRequest struct {
	ProductID         string                 `json:"productID" binding:"required"`
	Type              domain.MovementType    `json:"type" binding:"required,oneof=IN OUT"`
	Quantity          decimal.Decimal        `json:"quantity" binding:"gt=0"`
	UnitCost          *decimal.Decimal       `json:"unitCost" binding:"omitempty,gte=0"`
	Source            domain.InventorySource `json:"source" binding:"omitempty,oneof=Manual Adjustment"`
	WarehouseLocation string                 `json:"warehouseLocation" binding:"max=100"`
	Remark            string                 `json:"remark" binding:"max=255"`
}
