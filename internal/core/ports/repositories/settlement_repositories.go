package repositories

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PaymentRepository defines persistence for supplier payments
type PaymentRepository interface {
	// SavePaymentInTx persists a payment.
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error

	// ListPayments retrieves payments, restricted to one order when orderID is set.
	ListPayments(ctx context.Context, companyID, orderID string) ([]domain.Payment, error)

	// SumPaymentsByOrdersInTx totals payments per order id.
	SumPaymentsByOrdersInTx(ctx context.Context, tx pgx.Tx, companyID string, orderIDs []string) (map[string]decimal.Decimal, error)
}

// ReceiptRepository defines persistence for customer receipts
type ReceiptRepository interface {
	SaveReceiptInTx(ctx context.Context, tx pgx.Tx, receipt domain.Receipt) error
	ListReceipts(ctx context.Context, companyID, orderID string) ([]domain.Receipt, error)
	SumReceiptsByOrdersInTx(ctx context.Context, tx pgx.Tx, companyID string, orderIDs []string) (map[string]decimal.Decimal, error)

	// OutstandingCreditInTx is the unreceived balance of the customer's Posted
	// credit sales orders, excluding excludeOrderID.
	OutstandingCreditInTx(ctx context.Context, tx pgx.Tx, companyID, customerID, excludeOrderID string) (decimal.Decimal, error)
}

// SettlementRepositoryFacade combines payment and receipt persistence
type SettlementRepositoryFacade interface {
	PaymentRepository
	ReceiptRepository
}
