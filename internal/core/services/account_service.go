package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/chart"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	template    *chart.Template
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountAuthorizer adds the company authorizer dependency
func WithAccountAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) AccountServiceOption {
	return func(s *accountService) {
		s.Authorizer = authorizer
	}
}

// WithAccountChartTemplate replaces the template used by SeedCoreAccounts.
func WithAccountChartTemplate(t *chart.Template) AccountServiceOption {
	return func(s *accountService) {
		s.template = t
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(txManager portsrepo.TransactionManager, repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		txManager:   txManager,
		accountRepo: repo,
		template:    chart.Standard(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) loadTree(ctx context.Context, companyID string) (*domain.AccountTree, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return domain.NewAccountTree(accounts), nil
}

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermAccountCreate); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, apperrors.NewValidationError("type", "unknown account type %q", req.Type)
	}
	normal := req.NormalBalance
	if normal == "" {
		normal = domain.DefaultNormalBalance(req.Type)
	} else if !normal.Valid() {
		return nil, apperrors.NewValidationError("normalBalance", "unknown normal balance %q", normal)
	}

	tree, err := s.loadTree(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if _, exists := tree.FindByCode(req.Code); exists {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
	}

	parentID := ""
	if req.ParentID != nil && *req.ParentID != "" {
		parentID = *req.ParentID
		if _, ok := tree.Get(parentID); !ok {
			return nil, apperrors.NewValidationError("parentID", "parent account %s not found in company", parentID)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     companyID,
		ParentID:      parentID,
		Code:          req.Code,
		Name:          req.Name,
		Type:          req.Type,
		NormalBalance: normal,
		BalanceDebit:  decimal.Zero,
		BalanceCredit: decimal.Zero,
		IsCore:        false,
		Path:          domain.BuildPath(tree, parentID, req.Code),
		Remark:        req.Remark,
		AuditFields:   domain.NewAuditFields(userID, now),
	}

	if err := s.accountRepo.SaveAccountsInTx(ctx, nil, []domain.Account{account}); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("company_id", companyID),
			slog.String("code", req.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("company_id", companyID),
		slog.String("path", account.Path))
	return &account, nil
}

func (s *accountService) GetAccount(ctx context.Context, companyID, accountID, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID, parentID, userID string) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("company_id", companyID))
		return nil, err
	}
	if parentID == "" {
		return accounts, nil
	}
	tree := domain.NewAccountTree(accounts)
	if _, ok := tree.Get(parentID); !ok {
		return nil, fmt.Errorf("parent account %s: %w", parentID, apperrors.ErrNotFound)
	}
	children := make([]domain.Account, 0, len(tree.Children(parentID)))
	for _, id := range tree.Children(parentID) {
		acc, _ := tree.Get(id)
		children = append(children, acc)
	}
	return children, nil
}

func (s *accountService) GetAccountTree(ctx context.Context, companyID, userID string) ([]domain.AccountTreeNode, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	tree, err := s.loadTree(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return domain.Nest(tree), nil
}

func (s *accountService) UpdateAccount(ctx context.Context, companyID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermAccountUpdate); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperrors.NewValidationError("name", "name cannot be empty")
		}
		account.Name = *req.Name
	}
	if req.Remark != nil {
		account.Remark = *req.Remark
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", accountID),
		slog.String("company_id", companyID))
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, companyID, accountID, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermAccountDelete); err != nil {
		return err
	}
	// Posting locks the same account rows, so no ledger line lands between
	// the guard checks and the delete.
	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		locked, err := s.accountRepo.LockAccountsForUpdate(ctx, tx, companyID, []string{accountID})
		if err != nil {
			return err
		}
		account, ok := locked[accountID]
		if !ok {
			return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		hasChildren, err := s.accountRepo.HasChildAccountsInTx(ctx, tx, companyID, accountID)
		if err != nil {
			return err
		}
		hasLines, err := s.accountRepo.HasLedgerLinesInTx(ctx, tx, companyID, accountID)
		if err != nil {
			return err
		}
		if err := domain.CheckDeletable(account, hasChildren, hasLines); err != nil {
			return err
		}
		return s.accountRepo.DeleteAccountInTx(ctx, tx, companyID, accountID)
	})
	if err != nil {
		if !isBusinessError(err) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		}
		return err
	}
	s.LogInfo(ctx, "Account deleted successfully",
		slog.String("account_id", accountID),
		slog.String("company_id", companyID))
	return nil
}

func (s *accountService) SeedCoreAccounts(ctx context.Context, companyID, userID string) (int, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermAccountCreate); err != nil {
		return 0, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		return 0, err
	}
	existing := make(map[string]bool, len(accounts))
	for _, acc := range accounts {
		existing[acc.Code] = true
	}
	missing := s.template.Materialize(companyID, userID, existing, time.Now().UTC())
	if len(missing) == 0 {
		return 0, nil
	}
	if err := s.accountRepo.SaveAccountsInTx(ctx, nil, missing); err != nil {
		s.LogError(ctx, err, "Failed to seed core accounts", slog.String("company_id", companyID))
		return 0, err
	}
	s.LogInfo(ctx, "Core accounts seeded",
		slog.String("company_id", companyID),
		slog.Int("created", len(missing)))
	return len(missing), nil
}
