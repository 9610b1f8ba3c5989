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
	"github.com/jackc/pgx/v5"
)

// inventoryService records manual stock movements and reads stock levels.
type inventoryService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	inventoryRepo portsrepo.InventoryRepositoryFacade
	partyRepo     portsrepo.PartyRepositoryFacade
}

type InventoryServiceOption func(*inventoryService)

func WithInventoryAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) InventoryServiceOption {
	return func(s *inventoryService) {
		s.Authorizer = authorizer
	}
}

func NewInventoryService(
	txManager portsrepo.TransactionManager,
	inventoryRepo portsrepo.InventoryRepositoryFacade,
	partyRepo portsrepo.PartyRepositoryFacade,
	options ...InventoryServiceOption,
) portssvc.InventorySvcFacade {
	svc := &inventoryService{
		txManager:     txManager,
		inventoryRepo: inventoryRepo,
		partyRepo:     partyRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

func (s *inventoryService) ListItems(ctx context.Context, companyID, userID string) ([]domain.InventoryItem, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.inventoryRepo.ListItems(ctx, companyID)
}

func (s *inventoryService) GetItem(ctx context.Context, companyID, productID, userID string) (*domain.InventoryItem, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.inventoryRepo.FindItemByProduct(ctx, companyID, productID)
}

func (s *inventoryService) ListTransactions(ctx context.Context, companyID, productID, userID string) ([]domain.InventoryTransaction, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.inventoryRepo.ListTransactionsByProduct(ctx, companyID, productID)
}

// RecordMovement applies a manual movement. The item is created on its first
// movement; OUT movements are costed at the current average.
func (s *inventoryService) RecordMovement(ctx context.Context, companyID string, req dto.InventoryMovementRequest, userID string) (*domain.InventoryTransaction, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermInventoryAdj); err != nil {
		return nil, err
	}
	source := req.Source
	if source == "" {
		source = domain.InventorySourceManual
	}
	if source != domain.InventorySourceManual && source != domain.InventorySourceAdjustment {
		return nil, apperrors.NewValidationError("source", "manual movements must use source Manual or Adjustment")
	}
	if req.Type == domain.MovementIn && req.UnitCost == nil {
		return nil, apperrors.NewValidationError("unitCost", "unit cost is required for inbound movements")
	}
	if req.Type != domain.MovementIn && req.Type != domain.MovementOut {
		return nil, apperrors.NewValidationError("type", "unknown movement type %q", req.Type)
	}
	if _, err := s.partyRepo.FindProduct(ctx, companyID, req.ProductID); err != nil {
		return nil, fmt.Errorf("product %s: %w", req.ProductID, err)
	}

	ref := domain.MovementRef{
		SourceType:        source,
		WarehouseLocation: req.WarehouseLocation,
		Remark:            req.Remark,
		UserID:            userID,
	}
	var movement domain.InventoryTransaction
	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		locked, err := s.inventoryRepo.LockItemsForUpdate(ctx, tx, companyID, []string{req.ProductID})
		if err != nil {
			return fmt.Errorf("failed to lock inventory item: %w", err)
		}
		now := time.Now().UTC()
		item := domain.NewInventoryItem(companyID, req.ProductID, now)
		if existing, ok := locked[req.ProductID]; ok {
			item = &existing
		}

		if req.Type == domain.MovementIn {
			movement, err = item.ApplyInbound(req.Quantity, *req.UnitCost, ref, now)
		} else {
			movement, err = item.ApplyOutbound(req.Quantity, ref, now)
		}
		if err != nil {
			return err
		}
		if err := s.inventoryRepo.SaveItemsInTx(ctx, tx, []domain.InventoryItem{*item}); err != nil {
			return fmt.Errorf("failed to save inventory item: %w", err)
		}
		if err := s.inventoryRepo.SaveTransactionsInTx(ctx, tx, []domain.InventoryTransaction{movement}); err != nil {
			return fmt.Errorf("failed to save inventory transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			s.LogError(ctx, err, "Failed to record inventory movement",
				slog.String("company_id", companyID),
				slog.String("product_id", req.ProductID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Inventory movement recorded",
		slog.String("company_id", companyID),
		slog.String("product_id", req.ProductID),
		slog.String("type", string(movement.Type)),
		slog.String("quantity", movement.Quantity.String()))
	return &movement, nil
}
