package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// orderService runs the purchase and sales order workflows. Posting an
// order moves stock and books its journal entries in one transaction.
type orderService struct {
	BaseService
	txManager      portsrepo.TransactionManager
	orderRepo      portsrepo.OrderRepositoryFacade
	partyRepo      portsrepo.PartyRepositoryFacade
	inventoryRepo  portsrepo.InventoryRepositoryFacade
	settlementRepo portsrepo.SettlementRepositoryFacade
	books          bookkeeper
}

type OrderServiceOption func(*orderService)

func WithOrderAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) OrderServiceOption {
	return func(s *orderService) {
		s.Authorizer = authorizer
	}
}

func WithOrderBalanceTolerance(tol decimal.Decimal) OrderServiceOption {
	return func(s *orderService) {
		s.books.tolerance = tol
	}
}

func NewOrderService(repos portsrepo.RepositoryProvider, options ...OrderServiceOption) portssvc.OrderSvcFacade {
	svc := &orderService{
		txManager:      repos.TxManager,
		orderRepo:      repos.OrderRepo,
		partyRepo:      repos.PartyRepo,
		inventoryRepo:  repos.InventoryRepo,
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

var _ portssvc.OrderSvcFacade = (*orderService)(nil)

// buildItems validates product links and computes the item subtotals.
func (s *orderService) buildItems(ctx context.Context, tx pgx.Tx, companyID string, reqs []dto.OrderItemRequest) ([]domain.OrderItem, error) {
	var productIDs []string
	for _, r := range reqs {
		if r.ProductID != "" {
			productIDs = append(productIDs, r.ProductID)
		}
	}
	if len(productIDs) > 0 {
		products, err := s.partyRepo.FindProductsByIDsInTx(ctx, tx, companyID, productIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load products: %w", err)
		}
		for _, id := range productIDs {
			if _, ok := products[id]; !ok {
				return nil, apperrors.NewValidationError("productID", "product %s does not belong to the company", id)
			}
		}
	}
	items := make([]domain.OrderItem, 0, len(reqs))
	for _, r := range reqs {
		item, err := domain.NewOrderItem(r.ProductID, r.Description, r.Quantity, r.UnitPrice, r.DiscountRate)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// checkCredit enforces the customer's credit limit for a credit sale. The
// customer row is locked so concurrent credit sales serialize.
func (s *orderService) checkCredit(ctx context.Context, tx pgx.Tx, order *domain.SalesOrder) error {
	if order.PaymentMethod != domain.PaymentCredit {
		return nil
	}
	customer, err := s.partyRepo.LockCustomer(ctx, tx, order.CompanyID, order.CustomerID)
	if err != nil {
		return fmt.Errorf("customer %s: %w", order.CustomerID, err)
	}
	debt, err := s.settlementRepo.OutstandingCreditInTx(ctx, tx, order.CompanyID, order.CustomerID, order.OrderID)
	if err != nil {
		return fmt.Errorf("failed to compute customer debt: %w", err)
	}
	return domain.CreditCheck(customer, debt, order.TotalAmount)
}

func (s *orderService) logFailure(ctx context.Context, err error, msg, companyID, orderID string) {
	if isBusinessError(err) {
		s.LogDebug(ctx, msg,
			slog.String("error", err.Error()),
			slog.String("company_id", companyID),
			slog.String("order_id", orderID))
		return
	}
	s.LogError(ctx, err, msg,
		slog.String("company_id", companyID),
		slog.String("order_id", orderID))
}

func (s *orderService) CreatePurchaseOrder(ctx context.Context, companyID string, req dto.CreatePurchaseOrderRequest, userID string) (*domain.PurchaseOrder, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermPurchaseCreate); err != nil {
		return nil, err
	}
	if _, err := s.partyRepo.FindSupplier(ctx, companyID, req.SupplierID); err != nil {
		return nil, apperrors.NewValidationError("supplierID", "supplier %s not found", req.SupplierID)
	}
	now := time.Now().UTC()
	base, err := domain.NewOrder(domain.PurchaseOrderKind, companyID, req.OrderDate, req.PaymentMethod, req.Remark, userID, now)
	if err != nil {
		return nil, err
	}
	items, err := s.buildItems(ctx, nil, companyID, req.Items)
	if err != nil {
		return nil, err
	}
	order := domain.PurchaseOrder{Order: base, SupplierID: req.SupplierID}
	order.SetItems(items)

	if err := s.orderRepo.SavePurchaseOrderInTx(ctx, nil, order); err != nil {
		s.LogError(ctx, err, "Failed to save purchase order", slog.String("company_id", companyID))
		return nil, err
	}
	s.LogInfo(ctx, "Purchase order created successfully",
		slog.String("order_id", order.OrderID),
		slog.String("company_id", companyID),
		slog.String("total", order.TotalAmount.StringFixed(2)))
	return &order, nil
}

func (s *orderService) CreateSalesOrder(ctx context.Context, companyID string, req dto.CreateSalesOrderRequest, userID string) (*domain.SalesOrder, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermSalesCreate); err != nil {
		return nil, err
	}
	if _, err := s.partyRepo.FindCustomer(ctx, companyID, req.CustomerID); err != nil {
		return nil, apperrors.NewValidationError("customerID", "customer %s not found", req.CustomerID)
	}
	now := time.Now().UTC()
	base, err := domain.NewOrder(domain.SalesOrderKind, companyID, req.OrderDate, req.PaymentMethod, req.Remark, userID, now)
	if err != nil {
		return nil, err
	}
	items, err := s.buildItems(ctx, nil, companyID, req.Items)
	if err != nil {
		return nil, err
	}
	order := domain.SalesOrder{Order: base, CustomerID: req.CustomerID}
	order.SetItems(items)

	err = runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		if err := s.checkCredit(ctx, tx, &order); err != nil {
			return err
		}
		return s.orderRepo.SaveSalesOrderInTx(ctx, tx, order)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create sales order", companyID, order.OrderID)
		return nil, err
	}
	s.LogInfo(ctx, "Sales order created successfully",
		slog.String("order_id", order.OrderID),
		slog.String("company_id", companyID),
		slog.String("total", order.TotalAmount.StringFixed(2)))
	return &order, nil
}

func (s *orderService) GetPurchaseOrder(ctx context.Context, companyID, orderID, userID string) (*domain.PurchaseOrder, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.orderRepo.FindPurchaseOrder(ctx, companyID, orderID)
}

func (s *orderService) GetSalesOrder(ctx context.Context, companyID, orderID, userID string) (*domain.SalesOrder, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.orderRepo.FindSalesOrder(ctx, companyID, orderID)
}

func (s *orderService) ListPurchaseOrders(ctx context.Context, companyID string, params dto.ListOrdersParams, userID string) ([]domain.PurchaseOrder, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.orderRepo.ListPurchaseOrders(ctx, companyID, portsrepo.OrderFilter{Status: params.Status, PartyID: params.PartyID})
}

func (s *orderService) ListSalesOrders(ctx context.Context, companyID string, params dto.ListOrdersParams, userID string) ([]domain.SalesOrder, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.orderRepo.ListSalesOrders(ctx, companyID, portsrepo.OrderFilter{Status: params.Status, PartyID: params.PartyID})
}

// editPurchase locks a Draft purchase order, applies edit to its items and
// stores the recomputed total.
func (s *orderService) editPurchase(ctx context.Context, companyID, orderID, userID string, edit func(tx pgx.Tx, o *domain.Order) error) (*domain.PurchaseOrder, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermPurchaseCreate); err != nil {
		return nil, err
	}
	var out *domain.PurchaseOrder
	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		order, err := s.orderRepo.LockPurchaseOrder(ctx, tx, companyID, orderID)
		if err != nil {
			return err
		}
		if err := order.EnsureDraft(); err != nil {
			return err
		}
		if err := edit(tx, &order.Order); err != nil {
			return err
		}
		order.LastUpdatedAt = time.Now().UTC()
		order.LastUpdatedBy = userID
		if err := s.orderRepo.UpdatePurchaseOrderInTx(ctx, tx, *order); err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}
		out = order
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to edit purchase order items", companyID, orderID)
		return nil, err
	}
	return out, nil
}

func (s *orderService) editSales(ctx context.Context, companyID, orderID, userID string, edit func(tx pgx.Tx, o *domain.Order) error) (*domain.SalesOrder, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermSalesCreate); err != nil {
		return nil, err
	}
	var out *domain.SalesOrder
	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		order, err := s.orderRepo.LockSalesOrder(ctx, tx, companyID, orderID)
		if err != nil {
			return err
		}
		if err := order.EnsureDraft(); err != nil {
			return err
		}
		if err := edit(tx, &order.Order); err != nil {
			return err
		}
		order.LastUpdatedAt = time.Now().UTC()
		order.LastUpdatedBy = userID
		if err := s.orderRepo.UpdateSalesOrderInTx(ctx, tx, *order); err != nil {
			return fmt.Errorf("failed to update sales order: %w", err)
		}
		out = order
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to edit sales order items", companyID, orderID)
		return nil, err
	}
	return out, nil
}

func (s *orderService) addItem(ctx context.Context, companyID string, req dto.OrderItemRequest) func(pgx.Tx, *domain.Order) error {
	return func(tx pgx.Tx, o *domain.Order) error {
		items, err := s.buildItems(ctx, tx, companyID, []dto.OrderItemRequest{req})
		if err != nil {
			return err
		}
		o.SetItems(append(o.Items, items...))
		return nil
	}
}

func updateItem(itemID string, req dto.UpdateOrderItemRequest) func(pgx.Tx, *domain.Order) error {
	return func(_ pgx.Tx, o *domain.Order) error {
		idx := o.FindItem(itemID)
		if idx < 0 {
			return fmt.Errorf("order item %s: %w", itemID, apperrors.ErrNotFound)
		}
		updated, err := req.ToItemUpdate().Apply(o.Items[idx])
		if err != nil {
			return err
		}
		o.Items[idx] = updated
		o.SetItems(o.Items)
		return nil
	}
}

func removeItem(itemID string) func(pgx.Tx, *domain.Order) error {
	return func(_ pgx.Tx, o *domain.Order) error {
		idx := o.FindItem(itemID)
		if idx < 0 {
			return fmt.Errorf("order item %s: %w", itemID, apperrors.ErrNotFound)
		}
		items := append(append([]domain.OrderItem(nil), o.Items[:idx]...), o.Items[idx+1:]...)
		o.SetItems(items)
		return nil
	}
}

func (s *orderService) AddPurchaseItem(ctx context.Context, companyID, orderID string, req dto.OrderItemRequest, userID string) (*domain.PurchaseOrder, error) {
	return s.editPurchase(ctx, companyID, orderID, userID, s.addItem(ctx, companyID, req))
}

func (s *orderService) UpdatePurchaseItem(ctx context.Context, companyID, orderID, itemID string, req dto.UpdateOrderItemRequest, userID string) (*domain.PurchaseOrder, error) {
	return s.editPurchase(ctx, companyID, orderID, userID, updateItem(itemID, req))
}

func (s *orderService) RemovePurchaseItem(ctx context.Context, companyID, orderID, itemID, userID string) (*domain.PurchaseOrder, error) {
	return s.editPurchase(ctx, companyID, orderID, userID, removeItem(itemID))
}

func (s *orderService) AddSalesItem(ctx context.Context, companyID, orderID string, req dto.OrderItemRequest, userID string) (*domain.SalesOrder, error) {
	return s.editSales(ctx, companyID, orderID, userID, s.addItem(ctx, companyID, req))
}

func (s *orderService) UpdateSalesItem(ctx context.Context, companyID, orderID, itemID string, req dto.UpdateOrderItemRequest, userID string) (*domain.SalesOrder, error) {
	return s.editSales(ctx, companyID, orderID, userID, updateItem(itemID, req))
}

func (s *orderService) RemoveSalesItem(ctx context.Context, companyID, orderID, itemID, userID string) (*domain.SalesOrder, error) {
	return s.editSales(ctx, companyID, orderID, userID, removeItem(itemID))
}

// lockStock locks the inventory rows of the order's products and returns
// them keyed by product id. Products never received get a fresh item.
func (s *orderService) lockStock(ctx context.Context, tx pgx.Tx, o *domain.Order, now time.Time) (map[string]*domain.InventoryItem, error) {
	productIDs := o.ProductIDs()
	if len(productIDs) == 0 {
		return map[string]*domain.InventoryItem{}, nil
	}
	locked, err := s.inventoryRepo.LockItemsForUpdate(ctx, tx, o.CompanyID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory items: %w", err)
	}
	items := make(map[string]*domain.InventoryItem, len(productIDs))
	for _, id := range productIDs {
		if existing, ok := locked[id]; ok {
			item := existing
			items[id] = &item
		} else {
			items[id] = domain.NewInventoryItem(o.CompanyID, id, now)
		}
	}
	return items, nil
}

func (s *orderService) saveStock(ctx context.Context, tx pgx.Tx, items map[string]*domain.InventoryItem, movements []domain.InventoryTransaction) error {
	if len(movements) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rows := make([]domain.InventoryItem, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, *items[id])
	}
	if err := s.inventoryRepo.SaveItemsInTx(ctx, tx, rows); err != nil {
		return fmt.Errorf("failed to save inventory items: %w", err)
	}
	if err := s.inventoryRepo.SaveTransactionsInTx(ctx, tx, movements); err != nil {
		return fmt.Errorf("failed to save inventory transactions: %w", err)
	}
	return nil
}

// PostPurchaseOrder receives every stock line at its discounted price and
// books Dr Inventory / Cr Accounts Payable for the order total.
func (s *orderService) PostPurchaseOrder(ctx context.Context, companyID, orderID string, req dto.PostPurchaseOrderRequest, userID string) (*domain.PurchasePosting, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermPurchaseCreate); err != nil {
		return nil, err
	}

	var posting *domain.PurchasePosting
	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		order, err := s.orderRepo.LockPurchaseOrder(ctx, tx, companyID, orderID)
		if err != nil {
			return err
		}
		if err := order.EnsureDraft(); err != nil {
			return err
		}
		if !order.TotalAmount.IsPositive() {
			return apperrors.NewValidationError("items", "purchase order %s has no amount to post", order.ShortID())
		}
		accounts, err := s.books.requireCodes(ctx, tx, companyID, domain.CodeInventory, domain.CodeAccountsPayable)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		items, err := s.lockStock(ctx, tx, &order.Order, now)
		if err != nil {
			return err
		}
		var movements []domain.InventoryTransaction
		for _, line := range order.StockLines() {
			ref := domain.MovementRef{
				SourceType:        domain.InventorySourcePO,
				SourceID:          order.OrderID,
				WarehouseLocation: req.WarehouseLocations[line.ProductID],
				Remark:            line.Description,
				UserID:            userID,
			}
			mv, err := items[line.ProductID].ApplyInbound(line.Quantity, line.UnitCost(), ref, now)
			if err != nil {
				return err
			}
			movements = append(movements, mv)
		}
		if err := s.saveStock(ctx, tx, items, movements); err != nil {
			return err
		}

		entry, err := domain.NewJournalBuilder(companyID, order.OrderDate).
			Describe(fmt.Sprintf("Purchase order %s received", order.ShortID())).
			Source(domain.SourcePurchaseOrder, order.OrderID).
			Tolerance(s.books.tolerance).
			CreatedBy(userID, now).
			PostedBy(userID, now).
			Debit(accounts[domain.CodeInventory].AccountID, order.TotalAmount, "").
			Credit(accounts[domain.CodeAccountsPayable].AccountID, order.TotalAmount, "").
			Build()
		if err != nil {
			return err
		}
		if err := s.books.book(ctx, tx, companyID, userID, now, entry); err != nil {
			return err
		}

		if err := order.MarkPosted(userID, now); err != nil {
			return err
		}
		if err := s.orderRepo.UpdatePurchaseOrderInTx(ctx, tx, *order); err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}
		posting = &domain.PurchasePosting{Order: *order, Journal: *entry, Movements: movements}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to post purchase order", companyID, orderID)
		return nil, err
	}

	s.LogInfo(ctx, "Purchase order posted successfully",
		slog.String("order_id", orderID),
		slog.String("company_id", companyID),
		slog.String("journal_id", posting.Journal.JournalID),
		slog.Int("movements", len(posting.Movements)))
	return posting, nil
}

// PostSalesOrder checks credit, issues every stock line at its average cost,
// and books revenue (Dr AR / Cr Revenue) and cost of goods sold
// (Dr COGS / Cr Inventory).
func (s *orderService) PostSalesOrder(ctx context.Context, companyID, orderID, userID string) (*domain.SalesPosting, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermSalesCreate); err != nil {
		return nil, err
	}

	var posting *domain.SalesPosting
	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		order, err := s.orderRepo.LockSalesOrder(ctx, tx, companyID, orderID)
		if err != nil {
			return err
		}
		if err := order.EnsureDraft(); err != nil {
			return err
		}
		if !order.TotalAmount.IsPositive() {
			return apperrors.NewValidationError("items", "sales order %s has no amount to post", order.ShortID())
		}
		if err := s.checkCredit(ctx, tx, order); err != nil {
			return err
		}
		accounts, err := s.books.requireCodes(ctx, tx, companyID,
			domain.CodeAccountsReceivable, domain.CodeMainRevenue, domain.CodeMainCOGS, domain.CodeInventory)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		items, err := s.lockStock(ctx, tx, &order.Order, now)
		if err != nil {
			return err
		}
		var movements []domain.InventoryTransaction
		totalCost := decimal.Zero
		for _, line := range order.StockLines() {
			ref := domain.MovementRef{
				SourceType: domain.InventorySourceSO,
				SourceID:   order.OrderID,
				Remark:     line.Description,
				UserID:     userID,
			}
			mv, err := items[line.ProductID].ApplyOutbound(line.Quantity, ref, now)
			if err != nil {
				return err
			}
			totalCost = totalCost.Add(line.Quantity.Mul(mv.UnitCost))
			movements = append(movements, mv)
		}
		totalCost = domain.RoundMoney(totalCost)
		if err := s.saveStock(ctx, tx, items, movements); err != nil {
			return err
		}

		revenue, err := domain.NewJournalBuilder(companyID, order.OrderDate).
			Describe(fmt.Sprintf("Sales order %s revenue", order.ShortID())).
			Source(domain.SourceSalesOrder, order.OrderID).
			Tolerance(s.books.tolerance).
			CreatedBy(userID, now).
			PostedBy(userID, now).
			Debit(accounts[domain.CodeAccountsReceivable].AccountID, order.TotalAmount, "").
			Credit(accounts[domain.CodeMainRevenue].AccountID, order.TotalAmount, "").
			Build()
		if err != nil {
			return err
		}
		entries := []*domain.JournalEntry{revenue}

		var cost *domain.JournalEntry
		if totalCost.IsPositive() {
			cost, err = domain.NewJournalBuilder(companyID, order.OrderDate).
				Describe(fmt.Sprintf("Sales order %s cost of goods sold", order.ShortID())).
				Source(domain.SourceSalesOrder, order.OrderID).
				Tolerance(s.books.tolerance).
				CreatedBy(userID, now).
				PostedBy(userID, now).
				Debit(accounts[domain.CodeMainCOGS].AccountID, totalCost, "").
				Credit(accounts[domain.CodeInventory].AccountID, totalCost, "").
				Build()
			if err != nil {
				return err
			}
			entries = append(entries, cost)
		}
		if err := s.books.book(ctx, tx, companyID, userID, now, entries...); err != nil {
			return err
		}

		if err := order.MarkPosted(userID, now); err != nil {
			return err
		}
		if err := s.orderRepo.UpdateSalesOrderInTx(ctx, tx, *order); err != nil {
			return fmt.Errorf("failed to update sales order: %w", err)
		}
		posting = &domain.SalesPosting{
			Order:          *order,
			RevenueJournal: *revenue,
			CostJournal:    cost,
			TotalCost:      totalCost,
			Movements:      movements,
		}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to post sales order", companyID, orderID)
		return nil, err
	}

	s.LogInfo(ctx, "Sales order posted successfully",
		slog.String("order_id", orderID),
		slog.String("company_id", companyID),
		slog.String("total_cost", posting.TotalCost.StringFixed(2)),
		slog.Int("movements", len(posting.Movements)))
	return posting, nil
}
