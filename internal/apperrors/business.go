package apperrors

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Detailer is implemented by errors that carry structured data for rendering.
type Detailer interface {
	Details() map[string]any
}

// ValidationError reports bad input shape or a bad reference.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func (e *ValidationError) Details() map[string]any {
	return map[string]any{"field": e.Field, "message": e.Message}
}

// ImbalanceError reports debit and credit totals that differ beyond tolerance.
type ImbalanceError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Tolerance   decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("debits %s and credits %s differ by more than %s",
		e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2), e.Tolerance.String())
}

func (e *ImbalanceError) Unwrap() error { return ErrImbalance }

func (e *ImbalanceError) Details() map[string]any {
	return map[string]any{
		"totalDebit":  e.TotalDebit,
		"totalCredit": e.TotalCredit,
		"difference":  e.TotalDebit.Sub(e.TotalCredit).Abs(),
	}
}

// AlreadyPostedError reports an operation on a record that has left its editable state.
type AlreadyPostedError struct {
	Resource string
	ID       string
	Status   string
}

func (e *AlreadyPostedError) Error() string {
	return fmt.Sprintf("%s %s is already %s", e.Resource, e.ID, e.Status)
}

func (e *AlreadyPostedError) Unwrap() error { return ErrAlreadyPosted }

func (e *AlreadyPostedError) Details() map[string]any {
	return map[string]any{"resource": e.Resource, "id": e.ID, "status": e.Status}
}

// InsufficientStockError reports an outbound movement larger than the quantity on hand.
type InsufficientStockError struct {
	ProductID string
	Requested decimal.Decimal
	Available decimal.Decimal
}

// Shortfall is the quantity missing to satisfy the request.
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %s, available %s, short %s",
		e.ProductID, e.Requested.String(), e.Available.String(), e.Shortfall().String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

func (e *InsufficientStockError) Details() map[string]any {
	return map[string]any{
		"productID": e.ProductID,
		"requested": e.Requested,
		"available": e.Available,
		"shortfall": e.Shortfall(),
	}
}

// NoCostBasisError reports an outbound movement for a product that was never received.
type NoCostBasisError struct {
	ProductID string
}

func (e *NoCostBasisError) Error() string {
	return fmt.Sprintf("product %s has no average cost; record an inbound movement first", e.ProductID)
}

func (e *NoCostBasisError) Unwrap() error { return ErrNoCostBasis }

func (e *NoCostBasisError) Details() map[string]any {
	return map[string]any{"productID": e.ProductID}
}

// CreditLimitExceededError reports a credit sale that would push the customer's debt past its limit.
type CreditLimitExceededError struct {
	CustomerID  string
	CurrentDebt decimal.Decimal
	CreditLimit decimal.Decimal
	OrderAmount decimal.Decimal
}

// AvailableCredit is the remaining headroom, never negative.
func (e *CreditLimitExceededError) AvailableCredit() decimal.Decimal {
	available := e.CreditLimit.Sub(e.CurrentDebt)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("credit limit exceeded for customer %s: debt %s, limit %s, available %s, order %s",
		e.CustomerID, e.CurrentDebt.StringFixed(2), e.CreditLimit.StringFixed(2),
		e.AvailableCredit().StringFixed(2), e.OrderAmount.StringFixed(2))
}

func (e *CreditLimitExceededError) Unwrap() error { return ErrCreditLimitExceeded }

func (e *CreditLimitExceededError) Details() map[string]any {
	return map[string]any{
		"customerID":      e.CustomerID,
		"currentDebt":     e.CurrentDebt,
		"creditLimit":     e.CreditLimit,
		"availableCredit": e.AvailableCredit(),
		"orderAmount":     e.OrderAmount,
	}
}

// ExactSettlementRequiredError reports a purchase payment that does not match the unpaid amount.
type ExactSettlementRequiredError struct {
	OrderID     string
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	Amount      decimal.Decimal
}

// Outstanding is the only amount that would have been accepted.
func (e *ExactSettlementRequiredError) Outstanding() decimal.Decimal {
	return e.TotalAmount.Sub(e.PaidAmount)
}

func (e *ExactSettlementRequiredError) Error() string {
	return fmt.Sprintf("purchase order %s must be paid in full: amount %s, outstanding %s",
		e.OrderID, e.Amount.StringFixed(2), e.Outstanding().StringFixed(2))
}

func (e *ExactSettlementRequiredError) Unwrap() error { return ErrExactSettlementRequired }

func (e *ExactSettlementRequiredError) Details() map[string]any {
	return map[string]any{
		"orderID":     e.OrderID,
		"totalAmount": e.TotalAmount,
		"paidAmount":  e.PaidAmount,
		"outstanding": e.Outstanding(),
		"amount":      e.Amount,
	}
}

// OverpaymentError reports a receipt larger than what is still owed on the sales order.
type OverpaymentError struct {
	OrderID        string
	TotalAmount    decimal.Decimal
	ReceivedAmount decimal.Decimal
	Amount         decimal.Decimal
}

func (e *OverpaymentError) Outstanding() decimal.Decimal {
	return e.TotalAmount.Sub(e.ReceivedAmount)
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("receipt of %s exceeds outstanding %s on sales order %s",
		e.Amount.StringFixed(2), e.Outstanding().StringFixed(2), e.OrderID)
}

func (e *OverpaymentError) Unwrap() error { return ErrOverpayment }

func (e *OverpaymentError) Details() map[string]any {
	return map[string]any{
		"orderID":        e.OrderID,
		"totalAmount":    e.TotalAmount,
		"receivedAmount": e.ReceivedAmount,
		"outstanding":    e.Outstanding(),
		"amount":         e.Amount,
	}
}

// MissingAccountError reports chart-of-accounts codes an operation needs but the company lacks.
type MissingAccountError struct {
	Codes []string
}

func (e *MissingAccountError) Error() string {
	return "missing required accounts: " + strings.Join(e.Codes, ", ")
}

func (e *MissingAccountError) Unwrap() error { return ErrMissingAccount }

func (e *MissingAccountError) Details() map[string]any {
	return map[string]any{"codes": e.Codes}
}
