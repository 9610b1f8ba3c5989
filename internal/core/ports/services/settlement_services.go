package services

import (
	"context"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/shopspring/decimal"
)

// SettlementWriterSvc records payments and receipts
type SettlementWriterSvc interface {
	// CreatePayment records a supplier payment. A linked purchase order must be
	// paid exactly in full.
	CreatePayment(ctx context.Context, companyID string, req dto.CreatePaymentRequest, userID string) (*domain.PaymentOutcome, error)

	// CreateReceipt records a customer receipt. Partial receipts are accepted up
	// to the order's outstanding balance.
	CreateReceipt(ctx context.Context, companyID string, req dto.CreateReceiptRequest, userID string) (*domain.ReceiptOutcome, error)
}

// SettlementReaderSvc answers settlement questions
type SettlementReaderSvc interface {
	ListPayments(ctx context.Context, companyID string, orderID string, userID string) ([]domain.Payment, error)
	ListReceipts(ctx context.Context, companyID string, orderID string, userID string) ([]domain.Receipt, error)

	// OutstandingBalance is the unsettled amount of a purchase or sales order.
	OutstandingBalance(ctx context.Context, companyID string, kind domain.OrderKind, orderID string, userID string) (decimal.Decimal, error)

	// ListPayableOrders lists posted purchase orders that still have an unpaid balance.
	ListPayableOrders(ctx context.Context, companyID string, userID string) ([]domain.OrderBalance, error)

	// ListCollectibleOrders lists posted sales orders that still have an unreceived balance.
	ListCollectibleOrders(ctx context.Context, companyID string, userID string) ([]domain.OrderBalance, error)

	// CustomerCredit reports the customer's debt, limit and available credit.
	CustomerCredit(ctx context.Context, companyID string, customerID string, userID string) (*domain.CustomerCredit, error)
}

// SettlementSvcFacade combines all settlement-related service interfaces
type SettlementSvcFacade interface {
	SettlementWriterSvc
	SettlementReaderSvc
}
