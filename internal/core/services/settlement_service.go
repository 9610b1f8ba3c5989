package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// settlementService records payments and receipts against posted orders.
type settlementService struct {
	BaseService
	txManager      portsrepo.TransactionManager
	orderRepo      portsrepo.OrderRepositoryFacade
	partyRepo      portsrepo.PartyRepositoryFacade
	settlementRepo portsrepo.SettlementRepositoryFacade
	books          bookkeeper
}

type SettlementServiceOption func(*settlementService)

func WithSettlementAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) SettlementServiceOption {
	return func(s *settlementService) {
		s.Authorizer = authorizer
	}
}

func WithSettlementBalanceTolerance(tol decimal.Decimal) SettlementServiceOption {
	return func(s *settlementService) {
		s.books.tolerance = tol
	}
}

func NewSettlementService(repos portsrepo.RepositoryProvider, options ...SettlementServiceOption) portssvc.SettlementSvcFacade {
	svc := &settlementService{
		txManager:      repos.TxManager,
		orderRepo:      repos.OrderRepo,
		partyRepo:      repos.PartyRepo,
		settlementRepo: repos.SettlementRepo,
		books: bookkeeper{
			accountRepo: repos.AccountRepo,
			journalRepo: repos.JournalRepo,
			tolerance:   domain.DefaultBalanceTolerance,
		},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

func missingAccountsWarning(kind string, codes []string) string {
	return fmt.Sprintf("%s journal skipped: %s", kind, (&apperrors.MissingAccountError{Codes: codes}).Error())
}

// autoJournal books the settlement entry when both accounts exist. It returns
// a warning instead of an error when either account is missing.
func (s *settlementService) autoJournal(ctx context.Context, tx pgx.Tx, companyID, userID string, now time.Time,
	kind string, source domain.SourceType, sourceID, description string, date time.Time,
	debitCode, creditCode string, amount decimal.Decimal) (*domain.JournalEntry, string, error) {

	accounts, missing, err := s.books.resolveCodes(ctx, tx, companyID, debitCode, creditCode)
	if err != nil {
		return nil, "", err
	}
	if len(missing) > 0 {
		warning := missingAccountsWarning(kind, missing)
		s.LogWarn(ctx, "Automatic settlement journal skipped",
			slog.String("company_id", companyID),
			slog.String("source_id", sourceID),
			slog.Any("missing_codes", missing))
		return nil, warning, nil
	}

	entry, err := domain.NewJournalBuilder(companyID, date).
		Describe(description).
		Source(source, sourceID).
		Tolerance(s.books.tolerance).
		CreatedBy(userID, now).
		PostedBy(userID, now).
		Debit(accounts[debitCode].AccountID, amount, "").
		Credit(accounts[creditCode].AccountID, amount, "").
		Build()
	if err != nil {
		return nil, "", err
	}
	if err := s.books.book(ctx, tx, companyID, userID, now, entry); err != nil {
		return nil, "", err
	}
	return entry, "", nil
}

func requirePosted(o *domain.Order) error {
	if o.Status != domain.OrderPosted {
		return apperrors.NewValidationError("orderID", "order %s is %s, only posted orders accept settlement", o.ShortID(), o.Status)
	}
	return nil
}

// CreatePayment records a supplier payment and books Dr Accounts Payable /
// Cr cash or bank. A linked purchase order is paid in one shot.
func (s *settlementService) CreatePayment(ctx context.Context, companyID string, req dto.CreatePaymentRequest, userID string) (*domain.PaymentOutcome, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermPaymentCreate); err != nil {
		return nil, err
	}
	if err := domain.ValidateSettlementAmount(req.Amount); err != nil {
		return nil, err
	}
	if !req.Method.Valid() {
		return nil, apperrors.NewValidationError("method", "unknown payment method %q", req.Method)
	}
	if req.OrderID == "" && req.SupplierID == "" {
		return nil, apperrors.NewValidationError("supplierID", "a payment needs an order or a supplier")
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		CompanyID:   companyID,
		OrderID:     req.OrderID,
		SupplierID:  req.SupplierID,
		PaymentDate: req.PaymentDate,
		Amount:      domain.RoundMoney(req.Amount),
		Method:      req.Method,
		Remark:      req.Remark,
		CreatedAt:   now,
		CreatedBy:   userID,
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = now
	}
	outcome := &domain.PaymentOutcome{}

	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		var order *domain.PurchaseOrder
		if req.OrderID != "" {
			var err error
			order, err = s.orderRepo.LockPurchaseOrder(ctx, tx, companyID, req.OrderID)
			if err != nil {
				return err
			}
			if err := requirePosted(&order.Order); err != nil {
				return err
			}
			if payment.SupplierID == "" {
				payment.SupplierID = order.SupplierID
			} else if payment.SupplierID != order.SupplierID {
				return apperrors.NewValidationError("supplierID", "supplier does not match purchase order %s", order.ShortID())
			}
			paid, err := s.settlementRepo.SumPaymentsByOrdersInTx(ctx, tx, companyID, []string{order.OrderID})
			if err != nil {
				return fmt.Errorf("failed to sum payments: %w", err)
			}
			if err := domain.CheckPurchasePayment(order, paid[order.OrderID], payment.Amount); err != nil {
				return err
			}
		} else if _, err := s.partyRepo.FindSupplier(ctx, companyID, payment.SupplierID); err != nil {
			return apperrors.NewValidationError("supplierID", "supplier %s not found", payment.SupplierID)
		}

		description := fmt.Sprintf("Payment %s", payment.PaymentID[:8])
		if order != nil {
			description = fmt.Sprintf("Payment for purchase order %s", order.ShortID())
		}
		entry, warning, err := s.autoJournal(ctx, tx, companyID, userID, now, "payment",
			domain.SourcePayment, payment.PaymentID, description, payment.PaymentDate,
			domain.CodeAccountsPayable, payment.Method.CashAccountCode(), payment.Amount)
		if err != nil {
			return err
		}
		if entry != nil {
			payment.JournalID = entry.JournalID
			outcome.Journal = entry
		}
		if warning != "" {
			outcome.Warnings = append(outcome.Warnings, warning)
		}

		if err := s.settlementRepo.SavePaymentInTx(ctx, tx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		if order != nil {
			if err := order.MarkSettled(userID, now); err != nil {
				return err
			}
			if err := s.orderRepo.UpdatePurchaseOrderInTx(ctx, tx, *order); err != nil {
				return fmt.Errorf("failed to update purchase order: %w", err)
			}
			outcome.OrderStatus = order.Status
		}
		return nil
	})
	if err != nil {
		if isBusinessError(err) {
			s.LogDebug(ctx, "Payment rejected", slog.String("error", err.Error()), slog.String("company_id", companyID))
		} else {
			s.LogError(ctx, err, "Failed to create payment", slog.String("company_id", companyID))
		}
		return nil, err
	}

	outcome.Payment = payment
	s.LogInfo(ctx, "Payment created successfully",
		slog.String("payment_id", payment.PaymentID),
		slog.String("company_id", companyID),
		slog.String("order_id", payment.OrderID),
		slog.String("amount", payment.Amount.StringFixed(2)))
	return outcome, nil
}

// CreateReceipt records a customer receipt and books Dr cash or bank /
// Cr Accounts Receivable. Linked sales orders may be collected in parts.
func (s *settlementService) CreateReceipt(ctx context.Context, companyID string, req dto.CreateReceiptRequest, userID string) (*domain.ReceiptOutcome, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermReceiptCreate); err != nil {
		return nil, err
	}
	if err := domain.ValidateSettlementAmount(req.Amount); err != nil {
		return nil, err
	}
	if !req.Method.Valid() {
		return nil, apperrors.NewValidationError("method", "unknown payment method %q", req.Method)
	}
	if req.OrderID == "" && req.CustomerID == "" {
		return nil, apperrors.NewValidationError("customerID", "a receipt needs an order or a customer")
	}

	now := time.Now().UTC()
	receipt := domain.Receipt{
		ReceiptID:   uuid.NewString(),
		CompanyID:   companyID,
		OrderID:     req.OrderID,
		CustomerID:  req.CustomerID,
		ReceiptDate: req.ReceiptDate,
		Amount:      domain.RoundMoney(req.Amount),
		Method:      req.Method,
		Remark:      req.Remark,
		CreatedAt:   now,
		CreatedBy:   userID,
	}
	if receipt.ReceiptDate.IsZero() {
		receipt.ReceiptDate = now
	}
	outcome := &domain.ReceiptOutcome{}

	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		var order *domain.SalesOrder
		var received decimal.Decimal
		if req.OrderID != "" {
			var err error
			order, err = s.orderRepo.LockSalesOrder(ctx, tx, companyID, req.OrderID)
			if err != nil {
				return err
			}
			if err := requirePosted(&order.Order); err != nil {
				return err
			}
			if receipt.CustomerID == "" {
				receipt.CustomerID = order.CustomerID
			} else if receipt.CustomerID != order.CustomerID {
				return apperrors.NewValidationError("customerID", "customer does not match sales order %s", order.ShortID())
			}
			sums, err := s.settlementRepo.SumReceiptsByOrdersInTx(ctx, tx, companyID, []string{order.OrderID})
			if err != nil {
				return fmt.Errorf("failed to sum receipts: %w", err)
			}
			received = sums[order.OrderID]
			if err := domain.CheckSalesReceipt(order, received, receipt.Amount); err != nil {
				return err
			}
		} else if _, err := s.partyRepo.FindCustomer(ctx, companyID, receipt.CustomerID); err != nil {
			return apperrors.NewValidationError("customerID", "customer %s not found", receipt.CustomerID)
		}

		description := fmt.Sprintf("Receipt %s", receipt.ReceiptID[:8])
		if order != nil {
			description = fmt.Sprintf("Receipt for sales order %s", order.ShortID())
		}
		entry, warning, err := s.autoJournal(ctx, tx, companyID, userID, now, "receipt",
			domain.SourceReceipt, receipt.ReceiptID, description, receipt.ReceiptDate,
			receipt.Method.CashAccountCode(), domain.CodeAccountsReceivable, receipt.Amount)
		if err != nil {
			return err
		}
		if entry != nil {
			receipt.JournalID = entry.JournalID
			outcome.Journal = entry
		}
		if warning != "" {
			outcome.Warnings = append(outcome.Warnings, warning)
		}

		if err := s.settlementRepo.SaveReceiptInTx(ctx, tx, receipt); err != nil {
			return fmt.Errorf("failed to save receipt: %w", err)
		}
		if order != nil {
			received = received.Add(receipt.Amount)
			if domain.IsFullySettled(order.TotalAmount, received) {
				if err := order.MarkSettled(userID, now); err != nil {
					return err
				}
				if err := s.orderRepo.UpdateSalesOrderInTx(ctx, tx, *order); err != nil {
					return fmt.Errorf("failed to update sales order: %w", err)
				}
			}
			left := domain.Outstanding(order.TotalAmount, received)
			outcome.Outstanding = &left
			outcome.OrderStatus = order.Status
		}
		return nil
	})
	if err != nil {
		if isBusinessError(err) {
			s.LogDebug(ctx, "Receipt rejected", slog.String("error", err.Error()), slog.String("company_id", companyID))
		} else {
			s.LogError(ctx, err, "Failed to create receipt", slog.String("company_id", companyID))
		}
		return nil, err
	}

	outcome.Receipt = receipt
	s.LogInfo(ctx, "Receipt created successfully",
		slog.String("receipt_id", receipt.ReceiptID),
		slog.String("company_id", companyID),
		slog.String("order_id", receipt.OrderID),
		slog.String("amount", receipt.Amount.StringFixed(2)))
	return outcome, nil
}

func (s *settlementService) ListPayments(ctx context.Context, companyID, orderID, userID string) ([]domain.Payment, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.settlementRepo.ListPayments(ctx, companyID, orderID)
}

func (s *settlementService) ListReceipts(ctx context.Context, companyID, orderID, userID string) ([]domain.Receipt, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.settlementRepo.ListReceipts(ctx, companyID, orderID)
}

func (s *settlementService) OutstandingBalance(ctx context.Context, companyID string, kind domain.OrderKind, orderID, userID string) (decimal.Decimal, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return decimal.Zero, err
	}
	switch kind {
	case domain.PurchaseOrderKind:
		order, err := s.orderRepo.FindPurchaseOrder(ctx, companyID, orderID)
		if err != nil {
			return decimal.Zero, err
		}
		paid, err := s.settlementRepo.SumPaymentsByOrdersInTx(ctx, nil, companyID, []string{orderID})
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
		}
		return domain.Outstanding(order.TotalAmount, paid[orderID]), nil
	case domain.SalesOrderKind:
		order, err := s.orderRepo.FindSalesOrder(ctx, companyID, orderID)
		if err != nil {
			return decimal.Zero, err
		}
		received, err := s.settlementRepo.SumReceiptsByOrdersInTx(ctx, nil, companyID, []string{orderID})
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to sum receipts: %w", err)
		}
		return domain.Outstanding(order.TotalAmount, received[orderID]), nil
	}
	return decimal.Zero, apperrors.NewValidationError("kind", "unknown order kind %q", kind)
}

func (s *settlementService) ListPayableOrders(ctx context.Context, companyID, userID string) ([]domain.OrderBalance, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListPurchaseOrders(ctx, companyID, portsrepo.OrderFilter{Status: domain.OrderPosted})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.OrderID
	}
	paid, err := s.settlementRepo.SumPaymentsByOrdersInTx(ctx, nil, companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}
	out := []domain.OrderBalance{}
	for _, o := range orders {
		left := domain.Outstanding(o.TotalAmount, paid[o.OrderID])
		if !left.IsPositive() {
			continue
		}
		out = append(out, domain.OrderBalance{
			OrderID:     o.OrderID,
			Kind:        domain.PurchaseOrderKind,
			PartyID:     o.SupplierID,
			OrderDate:   o.OrderDate,
			Status:      o.Status,
			TotalAmount: o.TotalAmount,
			Settled:     paid[o.OrderID],
			Outstanding: left,
		})
	}
	return out, nil
}

func (s *settlementService) ListCollectibleOrders(ctx context.Context, companyID, userID string) ([]domain.OrderBalance, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListSalesOrders(ctx, companyID, portsrepo.OrderFilter{Status: domain.OrderPosted})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.OrderID
	}
	received, err := s.settlementRepo.SumReceiptsByOrdersInTx(ctx, nil, companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to sum receipts: %w", err)
	}
	out := []domain.OrderBalance{}
	for _, o := range orders {
		left := domain.Outstanding(o.TotalAmount, received[o.OrderID])
		if !left.IsPositive() {
			continue
		}
		out = append(out, domain.OrderBalance{
			OrderID:     o.OrderID,
			Kind:        domain.SalesOrderKind,
			PartyID:     o.CustomerID,
			OrderDate:   o.OrderDate,
			Status:      o.Status,
			TotalAmount: o.TotalAmount,
			Settled:     received[o.OrderID],
			Outstanding: left,
		})
	}
	return out, nil
}

func (s *settlementService) CustomerCredit(ctx context.Context, companyID, customerID, userID string) (*domain.CustomerCredit, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	customer, err := s.partyRepo.FindCustomer(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	debt, err := s.settlementRepo.OutstandingCreditInTx(ctx, nil, companyID, customerID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to compute customer debt: %w", err)
	}
	credit := domain.NewCustomerCredit(customer, debt)
	return &credit, nil
}
