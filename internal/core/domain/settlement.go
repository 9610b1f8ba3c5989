package domain

import (
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Payment is money paid to a supplier, optionally against one purchase order.
// Payments are immutable once created.
type Payment struct {
	PaymentID   string          `json:"paymentID"`
	CompanyID   string          `json:"companyID"`
	OrderID     string          `json:"orderID,omitempty"`
	SupplierID  string          `json:"supplierID,omitempty"`
	PaymentDate time.Time       `json:"paymentDate"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	JournalID   string          `json:"journalID,omitempty"` // empty when the automatic journal was skipped
	Remark      string          `json:"remark,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

// Receipt is money collected from a customer, optionally against one sales order.
type Receipt struct {
	ReceiptID   string          `json:"receiptID"`
	CompanyID   string          `json:"companyID"`
	OrderID     string          `json:"orderID,omitempty"`
	CustomerID  string          `json:"customerID,omitempty"`
	ReceiptDate time.Time       `json:"receiptDate"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	JournalID   string          `json:"journalID,omitempty"`
	Remark      string          `json:"remark,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

// Outstanding is what is still owed on an order given what was settled so far.
func Outstanding(total, settled decimal.Decimal) decimal.Decimal {
	return total.Sub(settled)
}

// ValidateSettlementAmount rejects non-positive amounts.
func ValidateSettlementAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationError("amount", "amount must be positive")
	}
	return nil
}

// CheckPurchasePayment enforces one-shot settlement of purchase orders: the
// payment must equal the outstanding amount exactly.
func CheckPurchasePayment(order *PurchaseOrder, paid, amount decimal.Decimal) error {
	if err := ValidateSettlementAmount(amount); err != nil {
		return err
	}
	if !RoundMoney(amount).Equal(RoundMoney(Outstanding(order.TotalAmount, paid))) {
		return &apperrors.ExactSettlementRequiredError{
			OrderID:     order.OrderID,
			TotalAmount: order.TotalAmount,
			PaidAmount:  paid,
			Amount:      amount,
		}
	}
	return nil
}

// CheckSalesReceipt allows partial collection up to the outstanding amount.
func CheckSalesReceipt(order *SalesOrder, received, amount decimal.Decimal) error {
	if err := ValidateSettlementAmount(amount); err != nil {
		return err
	}
	if amount.GreaterThan(Outstanding(order.TotalAmount, received)) {
		return &apperrors.OverpaymentError{
			OrderID:        order.OrderID,
			TotalAmount:    order.TotalAmount,
			ReceivedAmount: received,
			Amount:         amount,
		}
	}
	return nil
}

// IsFullySettled reports whether the settled amount covers the order total.
func IsFullySettled(total, settled decimal.Decimal) bool {
	return settled.GreaterThanOrEqual(total)
}

// CreditCheck evaluates a credit sale against the customer's limit. debt is the
// outstanding balance of the customer's other posted credit orders.
func CreditCheck(customer *Customer, debt, orderAmount decimal.Decimal) error {
	if debt.Add(orderAmount).GreaterThan(customer.CreditLimit) {
		return &apperrors.CreditLimitExceededError{
			CustomerID:  customer.CustomerID,
			CurrentDebt: debt,
			CreditLimit: customer.CreditLimit,
			OrderAmount: orderAmount,
		}
	}
	return nil
}

// CustomerCredit summarizes a customer's credit position.
type CustomerCredit struct {
	CustomerID      string          `json:"customerID"`
	CreditLimit     decimal.Decimal `json:"creditLimit"`
	CurrentDebt     decimal.Decimal `json:"currentDebt"`
	AvailableCredit decimal.Decimal `json:"availableCredit"`
}

func NewCustomerCredit(customer *Customer, debt decimal.Decimal) CustomerCredit {
	available := customer.CreditLimit.Sub(debt)
	if available.IsNegative() {
		available = decimal.Zero
	}
	return CustomerCredit{
		CustomerID:      customer.CustomerID,
		CreditLimit:     customer.CreditLimit,
		CurrentDebt:     debt,
		AvailableCredit: available,
	}
}

// OrderBalance is an order with its settlement progress.
type OrderBalance struct {
	OrderID     string          `json:"orderID"`
	Kind        OrderKind       `json:"kind"`
	PartyID     string          `json:"partyID"`
	OrderDate   time.Time       `json:"orderDate"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Settled     decimal.Decimal `json:"settled"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// PaymentOutcome is a recorded payment with its side effects. Journal is nil
// and Warnings explains why when the automatic journal was skipped.
type PaymentOutcome struct {
	Payment     Payment       `json:"payment"`
	OrderStatus OrderStatus   `json:"orderStatus,omitempty"`
	Journal     *JournalEntry `json:"journal,omitempty"`
	Warnings    []string      `json:"warnings,omitempty"`
}

// ReceiptOutcome is a recorded receipt with its side effects.
type ReceiptOutcome struct {
	Receipt     Receipt          `json:"receipt"`
	OrderStatus OrderStatus      `json:"orderStatus,omitempty"`
	Outstanding *decimal.Decimal `json:"outstanding,omitempty"`
	Journal     *JournalEntry    `json:"journal,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
}
