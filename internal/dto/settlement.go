package dto

import (
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records money paid to a supplier. When OrderID is set
// the amount must equal the order's outstanding balance.
type CreatePaymentRequest struct {
	OrderID     string               `json:"orderID"`
	SupplierID  string               `json:"supplierID"`
	PaymentDate time.Time            `json:"paymentDate"`
	Amount      decimal.Decimal      `json:"amount" binding:"gt=0"`
	Method      domain.PaymentMethod `json:"method" binding:"required,oneof=Cash BankTransfer Credit"`
	Remark      string               `json:"remark" binding:"max=255"`
}

// CreateReceiptRequest records money collected from a customer. Partial
// receipts are allowed up to the order's outstanding balance.
type CreateReceiptRequest struct {
	OrderID     string               `json:"orderID"`
	CustomerID  string               `json:"customerID"`
	ReceiptDate time.Time            `json:"receiptDate"`
	Amount      decimal.Decimal      `json:"amount" binding:"gt=0"`
	Method      domain.PaymentMethod `json:"method" binding:"required,oneof=Cash BankTransfer Credit"`
	Remark      string               `json:"remark" binding:"max=255"`
}

// ListSettlementsParams filters payments or receipts by order.
type ListSettlementsParams struct {
	OrderID string `form:"orderID"`
}
