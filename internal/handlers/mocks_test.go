package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, companyID string, accountID string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string, parentID string, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, parentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountTree(ctx context.Context, companyID string, userID string) ([]domain.AccountTreeNode, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTreeNode), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	args := m.Called(ctx, companyID, accountID, userID)
	return args.Error(0)
}
func (m *MockAccountService) SeedCoreAccounts(ctx context.Context, companyID string, userID string) (int, error) {
	args := m.Called(ctx, companyID, userID)
	return args.Int(0), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetEntry(ctx context.Context, companyID string, journalID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, journalID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) ListEntries(ctx context.Context, companyID string, params dto.ListJournalsParams, userID string) (*dto.ListJournalsResponse, error) {
	args := m.Called(ctx, companyID, params, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalsResponse), args.Error(1)
}
func (m *MockLedgerService) CreateEntry(ctx context.Context, companyID string, req dto.CreateJournalRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) PostEntry(ctx context.Context, companyID string, journalID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, journalID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) ComputeAccountBalance(ctx context.Context, companyID string, accountID string, asOf *time.Time, userID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, companyID, accountID, asOf, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}
func (m *MockLedgerService) AccountLedger(ctx context.Context, companyID string, accountID string, limit int, userID string) ([]domain.LedgerRow, error) {
	args := m.Called(ctx, companyID, accountID, limit, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerRow), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock OrderService ---
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) purchase(args mock.Arguments) (*domain.PurchaseOrder, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockOrderService) sales(args mock.Arguments) (*domain.SalesOrder, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesOrder), args.Error(1)
}

func (m *MockOrderService) CreatePurchaseOrder(ctx context.Context, companyID string, req dto.CreatePurchaseOrderRequest, userID string) (*domain.PurchaseOrder, error) {
	return m.purchase(m.Called(ctx, companyID, req, userID))
}
func (m *MockOrderService) GetPurchaseOrder(ctx context.Context, companyID string, orderID string, userID string) (*domain.PurchaseOrder, error) {
	return m.purchase(m.Called(ctx, companyID, orderID, userID))
}
func (m *MockOrderService) ListPurchaseOrders(ctx context.Context, companyID string, params dto.ListOrdersParams, userID string) ([]domain.PurchaseOrder, error) {
	args := m.Called(ctx, companyID, params, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Error(1)
}
func (m *MockOrderService) AddPurchaseItem(ctx context.Context, companyID string, orderID string, req dto.OrderItemRequest, userID string) (*domain.PurchaseOrder, error) {
	return m.purchase(m.Called(ctx, companyID, orderID, req, userID))
}
func (m *MockOrderService) UpdatePurchaseItem(ctx context.Context, companyID string, orderID string, itemID string, req dto.UpdateOrderItemRequest, userID string) (*domain.PurchaseOrder, error) {
	return m.purchase(m.Called(ctx, companyID, orderID, itemID, req, userID))
}
func (m *MockOrderService) RemovePurchaseItem(ctx context.Context, companyID string, orderID string, itemID string, userID string) (*domain.PurchaseOrder, error) {
	return m.purchase(m.Called(ctx, companyID, orderID, itemID, userID))
}
func (m *MockOrderService) PostPurchaseOrder(ctx context.Context, companyID string, orderID string, req dto.PostPurchaseOrderRequest, userID string) (*domain.PurchasePosting, error) {
	args := m.Called(ctx, companyID, orderID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchasePosting), args.Error(1)
}
func (m *MockOrderService) CreateSalesOrder(ctx context.Context, companyID string, req dto.CreateSalesOrderRequest, userID string) (*domain.SalesOrder, error) {
	return m.sales(m.Called(ctx, companyID, req, userID))
}
func (m *MockOrderService) GetSalesOrder(ctx context.Context, companyID string, orderID string, userID string) (*domain.SalesOrder, error) {
	return m.sales(m.Called(ctx, companyID, orderID, userID))
}
func (m *MockOrderService) ListSalesOrders(ctx context.Context, companyID string, params dto.ListOrdersParams, userID string) ([]domain.SalesOrder, error) {
	args := m.Called(ctx, companyID, params, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SalesOrder), args.Error(1)
}
func (m *MockOrderService) AddSalesItem(ctx context.Context, companyID string, orderID string, req dto.OrderItemRequest, userID string) (*domain.SalesOrder, error) {
	return m.sales(m.Called(ctx, companyID, orderID, req, userID))
}
func (m *MockOrderService) UpdateSalesItem(ctx context.Context, companyID string, orderID string, itemID string, req dto.UpdateOrderItemRequest, userID string) (*domain.SalesOrder, error) {
	return m.sales(m.Called(ctx, companyID, orderID, itemID, req, userID))
}
func (m *MockOrderService) RemoveSalesItem(ctx context.Context, companyID string, orderID string, itemID string, userID string) (*domain.SalesOrder, error) {
	return m.sales(m.Called(ctx, companyID, orderID, itemID, userID))
}
func (m *MockOrderService) PostSalesOrder(ctx context.Context, companyID string, orderID string, userID string) (*domain.SalesPosting, error) {
	args := m.Called(ctx, companyID, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesPosting), args.Error(1)
}

var _ portssvc.OrderSvcFacade = (*MockOrderService)(nil)
