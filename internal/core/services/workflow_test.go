package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/chart"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/core/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/SscSPs/smb_books_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// WorkflowSuite runs the services against the in-memory store.
type WorkflowSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	repos     portsrepo.RepositoryProvider
	svc       *portssvc.ServiceContainer
	owner     string
	companyID string
	day       time.Time
}

func (s *WorkflowSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.repos = memory.NewRepositoryProvider(s.store)
	s.svc = services.NewServiceContainer(nil, s.repos)
	s.owner = "owner-1"
	s.day = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	company, err := s.svc.Company.CreateCompany(s.ctx, dto.CreateCompanyRequest{Name: "Acme Trading"}, s.owner)
	s.Require().NoError(err)
	s.companyID = company.CompanyID
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func (s *WorkflowSuite) account(code string) domain.Account {
	acc, err := s.store.FindAccountByCode(s.ctx, s.companyID, code)
	s.Require().NoError(err)
	return *acc
}

func (s *WorkflowSuite) cached(code string) decimal.Decimal {
	return s.account(code).CachedBalance()
}

func (s *WorkflowSuite) product(code string) string {
	p, err := s.svc.Party.CreateProduct(s.ctx, s.companyID, dto.CreateProductRequest{Code: code, Name: "Widget " + code}, s.owner)
	s.Require().NoError(err)
	return p.ProductID
}

func (s *WorkflowSuite) supplier() string {
	sup, err := s.svc.Party.CreateSupplier(s.ctx, s.companyID, dto.CreateSupplierRequest{Name: "Parts Co"}, s.owner)
	s.Require().NoError(err)
	return sup.SupplierID
}

func (s *WorkflowSuite) customer(limit string) string {
	c, err := s.svc.Party.CreateCustomer(s.ctx, s.companyID, dto.CreateCustomerRequest{Name: "Buyer Ltd", CreditLimit: dec(limit)}, s.owner)
	s.Require().NoError(err)
	return c.CustomerID
}

func (s *WorkflowSuite) postedPO(supplierID, productID, qty, price string) *domain.PurchasePosting {
	po, err := s.svc.Order.CreatePurchaseOrder(s.ctx, s.companyID, dto.CreatePurchaseOrderRequest{
		SupplierID:    supplierID,
		OrderDate:     s.day,
		PaymentMethod: domain.PaymentCredit,
		Items:         []dto.OrderItemRequest{{ProductID: productID, Quantity: dec(qty), UnitPrice: dec(price)}},
	}, s.owner)
	s.Require().NoError(err)
	posting, err := s.svc.Order.PostPurchaseOrder(s.ctx, s.companyID, po.OrderID, dto.PostPurchaseOrderRequest{}, s.owner)
	s.Require().NoError(err)
	return posting
}

func (s *WorkflowSuite) draftSO(customerID string, method domain.PaymentMethod, items ...dto.OrderItemRequest) *domain.SalesOrder {
	so, err := s.svc.Order.CreateSalesOrder(s.ctx, s.companyID, dto.CreateSalesOrderRequest{
		CustomerID:    customerID,
		OrderDate:     s.day,
		PaymentMethod: method,
		Items:         items,
	}, s.owner)
	s.Require().NoError(err)
	return so
}

func (s *WorkflowSuite) TestPurchasePostingReceivesStockAndBooksPayable() {
	productID := s.product("P-1")
	posting := s.postedPO(s.supplier(), productID, "10", "5")

	s.Equal(domain.OrderPosted, posting.Order.Status)
	s.True(dec("50").Equal(posting.Order.TotalAmount))
	s.True(posting.Journal.Posted)
	s.Equal(domain.SourcePurchaseOrder, posting.Journal.SourceType)
	s.Contains(posting.Journal.Description, posting.Order.ShortID())
	s.Require().Len(posting.Movements, 1)

	item, err := s.svc.Inventory.GetItem(s.ctx, s.companyID, productID, s.owner)
	s.Require().NoError(err)
	s.True(dec("10").Equal(item.Quantity))
	s.True(dec("5").Equal(item.AverageCost))

	s.True(dec("50").Equal(s.cached(domain.CodeInventory)))
	s.True(dec("50").Equal(s.cached(domain.CodeAccountsPayable)))

	_, err = s.svc.Order.PostPurchaseOrder(s.ctx, s.companyID, posting.Order.OrderID, dto.PostPurchaseOrderRequest{}, s.owner)
	s.ErrorIs(err, apperrors.ErrAlreadyPosted)
}

func (s *WorkflowSuite) TestSalesPostingUsesWeightedAverageCost() {
	supplierID := s.supplier()
	productID := s.product("P-1")
	s.postedPO(supplierID, productID, "10", "5")
	s.postedPO(supplierID, productID, "10", "7")

	so := s.draftSO(s.customer("0"), domain.PaymentCash,
		dto.OrderItemRequest{ProductID: productID, Quantity: dec("5"), UnitPrice: dec("10")})
	posting, err := s.svc.Order.PostSalesOrder(s.ctx, s.companyID, so.OrderID, s.owner)
	s.Require().NoError(err)

	s.True(dec("30").Equal(posting.TotalCost), "5 units at an average of 6")
	s.Require().NotNil(posting.CostJournal)
	s.True(dec("50").Equal(posting.RevenueJournal.TotalDebit))

	item, err := s.svc.Inventory.GetItem(s.ctx, s.companyID, productID, s.owner)
	s.Require().NoError(err)
	s.True(dec("15").Equal(item.Quantity))
	s.True(dec("6").Equal(item.AverageCost))

	s.True(dec("50").Equal(s.cached(domain.CodeAccountsReceivable)))
	s.True(dec("50").Equal(s.cached(domain.CodeMainRevenue)))
	s.True(dec("30").Equal(s.cached(domain.CodeMainCOGS)))
	s.True(dec("90").Equal(s.cached(domain.CodeInventory)))
}

func (s *WorkflowSuite) TestInsufficientStockRollsBackEverything() {
	supplierID := s.supplier()
	stocked := s.product("P-1")
	other := s.product("P-2")
	s.postedPO(supplierID, stocked, "2", "5")
	s.postedPO(supplierID, other, "10", "1")

	so := s.draftSO(s.customer("0"), domain.PaymentCash,
		dto.OrderItemRequest{ProductID: other, Quantity: dec("3"), UnitPrice: dec("2")},
		dto.OrderItemRequest{ProductID: stocked, Quantity: dec("5"), UnitPrice: dec("9")})
	_, err := s.svc.Order.PostSalesOrder(s.ctx, s.companyID, so.OrderID, s.owner)

	var stockErr *apperrors.InsufficientStockError
	s.Require().True(errors.As(err, &stockErr))
	s.Equal(stocked, stockErr.ProductID)
	s.True(dec("3").Equal(stockErr.Shortfall()))

	after, err := s.svc.Order.GetSalesOrder(s.ctx, s.companyID, so.OrderID, s.owner)
	s.Require().NoError(err)
	s.Equal(domain.OrderDraft, after.Status)

	item, err := s.svc.Inventory.GetItem(s.ctx, s.companyID, other, s.owner)
	s.Require().NoError(err)
	s.True(dec("10").Equal(item.Quantity), "first line must be rolled back")
	s.True(s.cached(domain.CodeAccountsReceivable).IsZero())
	s.True(s.cached(domain.CodeMainCOGS).IsZero())
}

func (s *WorkflowSuite) TestCreditLimitGatesCreditSales() {
	supplierID := s.supplier()
	productID := s.product("P-1")
	s.postedPO(supplierID, productID, "100", "1")
	customerID := s.customer("1000")

	first := s.draftSO(customerID, domain.PaymentCredit,
		dto.OrderItemRequest{ProductID: productID, Quantity: dec("1"), UnitPrice: dec("800")})
	_, err := s.svc.Order.PostSalesOrder(s.ctx, s.companyID, first.OrderID, s.owner)
	s.Require().NoError(err)

	_, err = s.svc.Order.CreateSalesOrder(s.ctx, s.companyID, dto.CreateSalesOrderRequest{
		CustomerID:    customerID,
		PaymentMethod: domain.PaymentCredit,
		Items:         []dto.OrderItemRequest{{Description: "service", Quantity: dec("1"), UnitPrice: dec("250")}},
	}, s.owner)
	var creditErr *apperrors.CreditLimitExceededError
	s.Require().True(errors.As(err, &creditErr))
	s.True(dec("800").Equal(creditErr.CurrentDebt))
	s.True(dec("200").Equal(creditErr.AvailableCredit()))

	credit, err := s.svc.Settlement.CustomerCredit(s.ctx, s.companyID, customerID, s.owner)
	s.Require().NoError(err)
	s.True(dec("200").Equal(credit.AvailableCredit))

	// Cash sales ignore the limit.
	s.draftSO(customerID, domain.PaymentCash,
		dto.OrderItemRequest{Description: "service", Quantity: dec("1"), UnitPrice: dec("250")})
}

func (s *WorkflowSuite) TestPartialReceiptsCollectSalesOrder() {
	supplierID := s.supplier()
	productID := s.product("P-1")
	s.postedPO(supplierID, productID, "10", "10")
	customerID := s.customer("1000")
	so := s.draftSO(customerID, domain.PaymentCredit,
		dto.OrderItemRequest{ProductID: productID, Quantity: dec("3"), UnitPrice: dec("100")})
	_, err := s.svc.Order.PostSalesOrder(s.ctx, s.companyID, so.OrderID, s.owner)
	s.Require().NoError(err)

	first, err := s.svc.Settlement.CreateReceipt(s.ctx, s.companyID, dto.CreateReceiptRequest{
		OrderID: so.OrderID, Amount: dec("100"), Method: domain.PaymentBankTransfer,
	}, s.owner)
	s.Require().NoError(err)
	s.Equal(domain.OrderPosted, first.OrderStatus)
	s.True(dec("200").Equal(*first.Outstanding))
	s.NotNil(first.Journal)
	s.Empty(first.Warnings)

	second, err := s.svc.Settlement.CreateReceipt(s.ctx, s.companyID, dto.CreateReceiptRequest{
		OrderID: so.OrderID, Amount: dec("200"), Method: domain.PaymentBankTransfer,
	}, s.owner)
	s.Require().NoError(err)
	s.Equal(domain.OrderCollected, second.OrderStatus)
	s.True(second.Outstanding.IsZero())

	_, err = s.svc.Settlement.CreateReceipt(s.ctx, s.companyID, dto.CreateReceiptRequest{
		OrderID: so.OrderID, Amount: dec("1"), Method: domain.PaymentCash,
	}, s.owner)
	s.ErrorIs(err, apperrors.ErrValidation, "collected orders no longer accept receipts")

	s.True(s.cached(domain.CodeAccountsReceivable).IsZero())
	s.True(dec("300").Equal(s.cached(domain.CodeBankDeposits)))
	collectible, err := s.svc.Settlement.ListCollectibleOrders(s.ctx, s.companyID, s.owner)
	s.Require().NoError(err)
	s.Empty(collectible)
}

func (s *WorkflowSuite) TestOverpaymentRejected() {
	customerID := s.customer("1000")
	so := s.draftSO(customerID, domain.PaymentCredit,
		dto.OrderItemRequest{Description: "consulting", Quantity: dec("1"), UnitPrice: dec("300")})
	_, err := s.svc.Order.PostSalesOrder(s.ctx, s.companyID, so.OrderID, s.owner)
	s.Require().NoError(err)

	_, err = s.svc.Settlement.CreateReceipt(s.ctx, s.companyID, dto.CreateReceiptRequest{
		OrderID: so.OrderID, Amount: dec("300.01"), Method: domain.PaymentCash,
	}, s.owner)
	var over *apperrors.OverpaymentError
	s.Require().True(errors.As(err, &over))
	s.True(dec("300").Equal(over.Outstanding()))
}

func (s *WorkflowSuite) TestPurchasePaymentMustBeExact() {
	supplierID := s.supplier()
	posting := s.postedPO(supplierID, s.product("P-1"), "10", "15")

	payable, err := s.svc.Settlement.ListPayableOrders(s.ctx, s.companyID, s.owner)
	s.Require().NoError(err)
	s.Require().Len(payable, 1)
	s.True(dec("150").Equal(payable[0].Outstanding))

	_, err = s.svc.Settlement.CreatePayment(s.ctx, s.companyID, dto.CreatePaymentRequest{
		OrderID: posting.Order.OrderID, Amount: dec("100"), Method: domain.PaymentCash,
	}, s.owner)
	var exact *apperrors.ExactSettlementRequiredError
	s.Require().True(errors.As(err, &exact))
	s.True(dec("150").Equal(exact.Outstanding()))

	out, err := s.svc.Settlement.CreatePayment(s.ctx, s.companyID, dto.CreatePaymentRequest{
		OrderID: posting.Order.OrderID, Amount: dec("150"), Method: domain.PaymentCash,
	}, s.owner)
	s.Require().NoError(err)
	s.Equal(domain.OrderPaid, out.OrderStatus)
	s.Equal(supplierID, out.Payment.SupplierID)
	s.True(s.cached(domain.CodeAccountsPayable).IsZero())
	s.True(dec("-150").Equal(s.cached(domain.CodeCash)))

	left, err := s.svc.Settlement.OutstandingBalance(s.ctx, s.companyID, domain.PurchaseOrderKind, posting.Order.OrderID, s.owner)
	s.Require().NoError(err)
	s.True(left.IsZero())
}

func (s *WorkflowSuite) TestSettlementRequiresPostedOrder() {
	po, err := s.svc.Order.CreatePurchaseOrder(s.ctx, s.companyID, dto.CreatePurchaseOrderRequest{
		SupplierID:    s.supplier(),
		PaymentMethod: domain.PaymentCash,
		Items:         []dto.OrderItemRequest{{Description: "freight", Quantity: dec("1"), UnitPrice: dec("40")}},
	}, s.owner)
	s.Require().NoError(err)

	_, err = s.svc.Settlement.CreatePayment(s.ctx, s.companyID, dto.CreatePaymentRequest{
		OrderID: po.OrderID, Amount: dec("40"), Method: domain.PaymentCash,
	}, s.owner)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *WorkflowSuite) TestPaymentWithMissingAccountsIsRecordedWithWarning() {
	tmpl, err := chart.Parse([]byte("accounts:\n  - {code: \"2202\", name: Accounts Payable, type: Liability}\n"))
	s.Require().NoError(err)
	companies := services.NewCompanyService(s.store, s.store, s.store, services.WithChartTemplate(tmpl))
	bare, err := companies.CreateCompany(s.ctx, dto.CreateCompanyRequest{Name: "Bare Books"}, s.owner)
	s.Require().NoError(err)

	sup, err := s.svc.Party.CreateSupplier(s.ctx, bare.CompanyID, dto.CreateSupplierRequest{Name: "Landlord"}, s.owner)
	s.Require().NoError(err)

	out, err := s.svc.Settlement.CreatePayment(s.ctx, bare.CompanyID, dto.CreatePaymentRequest{
		SupplierID: sup.SupplierID, Amount: dec("75"), Method: domain.PaymentCash,
	}, s.owner)
	s.Require().NoError(err)
	s.Nil(out.Journal)
	s.Empty(out.Payment.JournalID)
	s.Require().Len(out.Warnings, 1)
	s.Contains(out.Warnings[0], domain.CodeCash)

	payments, err := s.svc.Settlement.ListPayments(s.ctx, bare.CompanyID, "", s.owner)
	s.Require().NoError(err)
	s.Len(payments, 1)
}

func (s *WorkflowSuite) TestPostingFailsWhenCoreAccountsMissing() {
	tmpl, err := chart.Parse([]byte("accounts:\n  - {code: \"1405\", name: Inventory, type: Asset}\n"))
	s.Require().NoError(err)
	companies := services.NewCompanyService(s.store, s.store, s.store, services.WithChartTemplate(tmpl))
	bare, err := companies.CreateCompany(s.ctx, dto.CreateCompanyRequest{Name: "Bare Books"}, s.owner)
	s.Require().NoError(err)
	sup, err := s.svc.Party.CreateSupplier(s.ctx, bare.CompanyID, dto.CreateSupplierRequest{Name: "Parts"}, s.owner)
	s.Require().NoError(err)
	po, err := s.svc.Order.CreatePurchaseOrder(s.ctx, bare.CompanyID, dto.CreatePurchaseOrderRequest{
		SupplierID:    sup.SupplierID,
		PaymentMethod: domain.PaymentCash,
		Items:         []dto.OrderItemRequest{{Description: "bolts", Quantity: dec("1"), UnitPrice: dec("5")}},
	}, s.owner)
	s.Require().NoError(err)

	_, err = s.svc.Order.PostPurchaseOrder(s.ctx, bare.CompanyID, po.OrderID, dto.PostPurchaseOrderRequest{}, s.owner)
	var missing *apperrors.MissingAccountError
	s.Require().True(errors.As(err, &missing))
	s.Equal([]string{domain.CodeAccountsPayable}, missing.Codes)
}

func (s *WorkflowSuite) TestDraftItemEditsRecomputeTotal() {
	po, err := s.svc.Order.CreatePurchaseOrder(s.ctx, s.companyID, dto.CreatePurchaseOrderRequest{
		SupplierID:    s.supplier(),
		PaymentMethod: domain.PaymentCash,
		Items:         []dto.OrderItemRequest{{Description: "bolts", Quantity: dec("10"), UnitPrice: dec("2")}},
	}, s.owner)
	s.Require().NoError(err)
	s.True(dec("20").Equal(po.TotalAmount))

	po, err = s.svc.Order.AddPurchaseItem(s.ctx, s.companyID, po.OrderID,
		dto.OrderItemRequest{Description: "nuts", Quantity: dec("4"), UnitPrice: dec("5"), DiscountRate: dec("0.5")}, s.owner)
	s.Require().NoError(err)
	s.True(dec("30").Equal(po.TotalAmount))

	qty := dec("5")
	po, err = s.svc.Order.UpdatePurchaseItem(s.ctx, s.companyID, po.OrderID, po.Items[0].ItemID,
		dto.UpdateOrderItemRequest{Quantity: &qty}, s.owner)
	s.Require().NoError(err)
	s.True(dec("20").Equal(po.TotalAmount))

	po, err = s.svc.Order.RemovePurchaseItem(s.ctx, s.companyID, po.OrderID, po.Items[1].ItemID, s.owner)
	s.Require().NoError(err)
	s.Len(po.Items, 1)
	s.True(dec("10").Equal(po.TotalAmount))

	_, err = s.svc.Order.RemovePurchaseItem(s.ctx, s.companyID, po.OrderID, "missing", s.owner)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *WorkflowSuite) TestManualEntryPostsOnce() {
	cash := s.account(domain.CodeCash)
	capital := s.account("4001")

	entry, err := s.svc.Ledger.CreateEntry(s.ctx, s.companyID, dto.CreateJournalRequest{
		Date:        s.day,
		Description: "Owner contribution",
		Lines: []dto.LedgerLineRequest{
			{AccountID: cash.AccountID, Debit: dec("1000")},
			{AccountID: capital.AccountID, Credit: dec("1000")},
		},
	}, s.owner)
	s.Require().NoError(err)
	s.False(entry.Posted)
	s.True(s.cached(domain.CodeCash).IsZero(), "unposted entries leave balances alone")

	_, err = s.svc.Ledger.PostEntry(s.ctx, s.companyID, entry.JournalID, s.owner)
	s.Require().NoError(err)
	_, err = s.svc.Ledger.PostEntry(s.ctx, s.companyID, entry.JournalID, s.owner)
	s.ErrorIs(err, apperrors.ErrAlreadyPosted)

	s.True(dec("1000").Equal(s.cached(domain.CodeCash)))
	s.True(dec("1000").Equal(s.cached("4001")))
}

func (s *WorkflowSuite) TestImbalancedEntryRejected() {
	cash := s.account(domain.CodeCash)
	capital := s.account("4001")
	_, err := s.svc.Ledger.CreateEntry(s.ctx, s.companyID, dto.CreateJournalRequest{
		Date: s.day,
		Lines: []dto.LedgerLineRequest{
			{AccountID: cash.AccountID, Debit: dec("100")},
			{AccountID: capital.AccountID, Credit: dec("99.98")},
		},
	}, s.owner)
	s.ErrorIs(err, apperrors.ErrImbalance)

	_, err = s.svc.Ledger.CreateEntry(s.ctx, s.companyID, dto.CreateJournalRequest{
		Date: s.day,
		Lines: []dto.LedgerLineRequest{
			{AccountID: cash.AccountID, Debit: dec("100")},
			{AccountID: capital.AccountID, Credit: dec("99.995")},
		},
	}, s.owner)
	s.NoError(err, "gaps within one cent are accepted")
}

func (s *WorkflowSuite) TestBalanceRollsUpDescendants() {
	cash := s.account(domain.CodeCash)
	till, err := s.svc.Account.CreateAccount(s.ctx, s.companyID, dto.CreateAccountRequest{
		Code: "100101", Name: "Front Till", Type: domain.Asset, ParentID: &cash.AccountID,
	}, s.owner)
	s.Require().NoError(err)
	s.Equal("1001/100101", till.Path)

	revenue := s.account(domain.CodeMainRevenue)
	entry, err := s.svc.Ledger.CreateEntry(s.ctx, s.companyID, dto.CreateJournalRequest{
		Date: s.day,
		Lines: []dto.LedgerLineRequest{
			{AccountID: till.AccountID, Debit: dec("120")},
			{AccountID: revenue.AccountID, Credit: dec("120")},
		},
	}, s.owner)
	s.Require().NoError(err)
	_, err = s.svc.Ledger.PostEntry(s.ctx, s.companyID, entry.JournalID, s.owner)
	s.Require().NoError(err)

	bal, err := s.svc.Ledger.ComputeAccountBalance(s.ctx, s.companyID, cash.AccountID, nil, s.owner)
	s.Require().NoError(err)
	s.True(dec("120").Equal(bal.Balance))

	before := s.day.AddDate(0, 0, -1)
	bal, err = s.svc.Ledger.ComputeAccountBalance(s.ctx, s.companyID, cash.AccountID, &before, s.owner)
	s.Require().NoError(err)
	s.True(bal.Balance.IsZero())

	rev, err := s.svc.Ledger.ComputeAccountBalance(s.ctx, s.companyID, revenue.AccountID, nil, s.owner)
	s.Require().NoError(err)
	s.True(dec("120").Equal(rev.Balance), "credit-normal accounts read credit minus debit")

	err = s.svc.Account.DeleteAccount(s.ctx, s.companyID, till.AccountID, s.owner)
	s.Error(err, "accounts with ledger lines cannot be deleted")
}

func (s *WorkflowSuite) TestAutoMatchIsIdempotent() {
	bank, err := s.svc.Reconciliation.CreateBankAccount(s.ctx, s.companyID, dto.CreateBankAccountRequest{
		AccountNumber: "6222-0001", BankName: "First Bank",
	}, s.owner)
	s.Require().NoError(err)
	s.Equal(s.account(domain.CodeBankDeposits).AccountID, bank.LedgerAccountID)

	customerID := s.customer("0")
	_, err = s.svc.Settlement.CreateReceipt(s.ctx, s.companyID, dto.CreateReceiptRequest{
		CustomerID: customerID, ReceiptDate: s.day, Amount: dec("300"), Method: domain.PaymentBankTransfer,
	}, s.owner)
	s.Require().NoError(err)

	for _, st := range []dto.CreateStatementRequest{
		{Date: s.day.AddDate(0, 0, 2), Amount: dec("300"), Type: domain.StatementCredit, Description: "deposit"},
		{Date: s.day.AddDate(0, 0, 2), Amount: dec("300"), Type: domain.StatementDebit, Description: "wrong direction"},
		{Date: s.day.AddDate(0, 0, 5), Amount: dec("45"), Type: domain.StatementDebit, Description: "bank fee"},
	} {
		_, err := s.svc.Reconciliation.CreateStatementLine(s.ctx, s.companyID, bank.BankAccountID, st, s.owner)
		s.Require().NoError(err)
	}

	dates := domain.DateRange{From: s.day, To: s.day.AddDate(0, 0, 30)}
	recs, err := s.svc.Reconciliation.AutoMatch(s.ctx, s.companyID, bank.BankAccountID, dates, s.owner)
	s.Require().NoError(err)
	s.Require().Len(recs, 1)
	s.Equal("auto", recs[0].Remark)

	again, err := s.svc.Reconciliation.AutoMatch(s.ctx, s.companyID, bank.BankAccountID, dates, s.owner)
	s.Require().NoError(err)
	s.Empty(again)

	wb, err := s.svc.Reconciliation.Workbench(s.ctx, s.companyID, bank.BankAccountID, dates, s.owner)
	s.Require().NoError(err)
	s.Len(wb.Matched, 1)
	s.Len(wb.UnmatchedStatements, 2)
	s.Empty(wb.UnmatchedJournals)

	sheet, err := s.svc.Reconciliation.AdjustmentSheet(s.ctx, s.companyID, bank.BankAccountID, s.day.AddDate(0, 0, 30), s.owner)
	s.Require().NoError(err)
	s.True(dec("-45").Equal(sheet.BankBalance))
	s.True(dec("300").Equal(sheet.BookBalance))
	s.True(dec("345").Equal(sheet.BankPaidNotBooked))

	s.Require().NoError(s.svc.Reconciliation.DeleteReconciliation(s.ctx, s.companyID, recs[0].ReconciliationID, s.owner))
	rerun, err := s.svc.Reconciliation.AutoMatch(s.ctx, s.companyID, bank.BankAccountID, dates, s.owner)
	s.Require().NoError(err)
	s.Len(rerun, 1)
}

func (s *WorkflowSuite) TestManualReconciliationBypassesHeuristics() {
	bank, err := s.svc.Reconciliation.CreateBankAccount(s.ctx, s.companyID, dto.CreateBankAccountRequest{
		AccountNumber: "6222-0002", BankName: "First Bank",
	}, s.owner)
	s.Require().NoError(err)
	out, err := s.svc.Settlement.CreateReceipt(s.ctx, s.companyID, dto.CreateReceiptRequest{
		CustomerID: s.customer("0"), ReceiptDate: s.day, Amount: dec("80"), Method: domain.PaymentBankTransfer,
	}, s.owner)
	s.Require().NoError(err)
	stmt, err := s.svc.Reconciliation.CreateStatementLine(s.ctx, s.companyID, bank.BankAccountID, dto.CreateStatementRequest{
		Date: s.day.AddDate(0, 0, 20), Amount: dec("79"), Type: domain.StatementCredit,
	}, s.owner)
	s.Require().NoError(err)

	rec, err := s.svc.Reconciliation.CreateReconciliation(s.ctx, s.companyID, dto.CreateReconciliationRequest{
		StatementID: stmt.StatementID, JournalID: out.Journal.JournalID,
	}, s.owner)
	s.Require().NoError(err)
	s.True(dec("79").Equal(rec.MatchedAmount))

	lines, err := s.svc.Reconciliation.ListStatementLines(s.ctx, s.companyID, bank.BankAccountID, domain.DateRange{}, s.owner)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.True(lines[0].IsReconciled)
}

func (s *WorkflowSuite) TestReportsBalanceAfterTrading() {
	supplierID := s.supplier()
	productID := s.product("P-1")
	s.postedPO(supplierID, productID, "10", "5")
	so := s.draftSO(s.customer("0"), domain.PaymentCash,
		dto.OrderItemRequest{ProductID: productID, Quantity: dec("4"), UnitPrice: dec("12")})
	_, err := s.svc.Order.PostSalesOrder(s.ctx, s.companyID, so.OrderID, s.owner)
	s.Require().NoError(err)

	asOf := s.day.AddDate(0, 0, 1)
	tb, err := s.svc.Reporting.TrialBalance(s.ctx, s.companyID, asOf, s.owner)
	s.Require().NoError(err)
	s.True(tb.Balanced)
	s.True(dec("118").Equal(tb.TotalDebit))

	is, err := s.svc.Reporting.IncomeStatement(s.ctx, s.companyID, s.day, asOf, s.owner)
	s.Require().NoError(err)
	s.True(dec("48").Equal(is.TotalRevenue))
	s.True(dec("20").Equal(is.TotalExpense))
	s.True(dec("28").Equal(is.NetProfit))

	bs, err := s.svc.Reporting.BalanceSheet(s.ctx, s.companyID, asOf, s.owner)
	s.Require().NoError(err)
	s.True(bs.Balanced)
	s.True(dec("78").Equal(bs.TotalAssets))
	s.True(dec("50").Equal(bs.TotalLiabilities))
	s.True(dec("28").Equal(bs.CurrentYearProfit))
}

func (s *WorkflowSuite) TestRolesLimitOperations() {
	_, err := s.svc.Company.AddMember(s.ctx, s.companyID, dto.AddMemberRequest{UserID: "viewer-1", Role: domain.RoleViewer}, s.owner)
	s.Require().NoError(err)

	_, err = s.svc.Party.CreateSupplier(s.ctx, s.companyID, dto.CreateSupplierRequest{Name: "Nope"}, "viewer-1")
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.svc.Party.ListSuppliers(s.ctx, s.companyID, "viewer-1")
	s.NoError(err)

	_, err = s.svc.Party.ListSuppliers(s.ctx, s.companyID, "stranger")
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *WorkflowSuite) TestManualInventoryMovement() {
	productID := s.product("P-9")
	cost := dec("4")
	_, err := s.svc.Inventory.RecordMovement(s.ctx, s.companyID, dto.InventoryMovementRequest{
		ProductID: productID, Type: domain.MovementIn, Quantity: dec("5"), UnitCost: &cost,
	}, s.owner)
	s.Require().NoError(err)

	_, err = s.svc.Inventory.RecordMovement(s.ctx, s.companyID, dto.InventoryMovementRequest{
		ProductID: productID, Type: domain.MovementOut, Quantity: dec("6"),
	}, s.owner)
	s.ErrorIs(err, apperrors.ErrInsufficientStock)

	mv, err := s.svc.Inventory.RecordMovement(s.ctx, s.companyID, dto.InventoryMovementRequest{
		ProductID: productID, Type: domain.MovementOut, Quantity: dec("2"), Source: domain.InventorySourceAdjustment,
	}, s.owner)
	s.Require().NoError(err)
	s.True(dec("-2").Equal(mv.Quantity))
	s.True(cost.Equal(mv.UnitCost))

	txns, err := s.svc.Inventory.ListTransactions(s.ctx, s.companyID, productID, s.owner)
	s.Require().NoError(err)
	s.True(dec("3").Equal(domain.ReplayQuantity(txns)))
}
