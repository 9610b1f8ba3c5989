package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const defaultLedgerLimit = 100

// ledgerService creates, posts and reads journal entries.
type ledgerService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	tolerance   decimal.Decimal
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

func WithLedgerAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) LedgerServiceOption {
	return func(s *ledgerService) {
		s.Authorizer = authorizer
	}
}

// WithBalanceTolerance sets the accepted gap between debit and credit totals.
func WithBalanceTolerance(tol decimal.Decimal) LedgerServiceOption {
	return func(s *ledgerService) {
		s.tolerance = tol
	}
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	txManager portsrepo.TransactionManager,
	accountRepo portsrepo.AccountRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	options ...LedgerServiceOption,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		txManager:   txManager,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		tolerance:   domain.DefaultBalanceTolerance,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateEntry validates the lines and stores an unposted MANUAL entry.
func (s *ledgerService) CreateEntry(ctx context.Context, companyID string, req dto.CreateJournalRequest, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermJournalCreate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	builder := domain.NewJournalBuilder(companyID, req.Date).
		Describe(req.Description).
		Tolerance(s.tolerance).
		CreatedBy(userID, now)
	for _, line := range req.Lines {
		builder.Line(line.AccountID, line.Debit, line.Credit, line.Memo)
	}
	entry, err := builder.Build()
	if err != nil {
		return nil, err
	}

	accountIDs := entry.AccountIDs()
	found, err := s.accountRepo.FindAccountsByIDsInTx(ctx, nil, companyID, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts for journal creation", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		if _, ok := found[id]; !ok {
			return nil, apperrors.NewValidationError("lines", "account %s does not belong to the company", id)
		}
	}

	if err := s.journalRepo.SaveJournalInTx(ctx, nil, *entry); err != nil {
		s.LogError(ctx, err, "Failed to save journal", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	s.LogInfo(ctx, "Journal created successfully",
		slog.String("journal_id", entry.JournalID),
		slog.String("company_id", companyID))
	return entry, nil
}

// PostEntry flags the entry posted and applies it to the cached balances.
func (s *ledgerService) PostEntry(ctx context.Context, companyID, journalID, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermJournalPost); err != nil {
		return nil, err
	}

	var posted *domain.JournalEntry
	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		entry, err := s.journalRepo.LockJournalForUpdate(ctx, tx, companyID, journalID)
		if err != nil {
			return err
		}
		if entry.Posted {
			return &apperrors.AlreadyPostedError{Resource: "journal_entry", ID: journalID, Status: "posted"}
		}
		if err := entry.CheckBalanced(s.tolerance); err != nil {
			return err
		}

		locked, err := s.accountRepo.LockAccountsForUpdate(ctx, tx, companyID, entry.AccountIDs())
		if err != nil {
			return fmt.Errorf("failed to lock accounts: %w", err)
		}
		for _, id := range entry.AccountIDs() {
			if _, ok := locked[id]; !ok {
				return apperrors.NewValidationError("lines", "account %s no longer exists", id)
			}
		}

		now := time.Now().UTC()
		if err := s.journalRepo.MarkPostedInTx(ctx, tx, journalID, userID, now); err != nil {
			return err
		}
		if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, entry.BalanceDeltas(), userID, now); err != nil {
			return fmt.Errorf("failed to update account balances: %w", err)
		}
		entry.Posted = true
		entry.PostedBy = userID
		entry.PostedAt = &now
		posted = entry
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			s.LogError(ctx, err, "Failed to post journal",
				slog.String("journal_id", journalID),
				slog.String("company_id", companyID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal posted successfully",
		slog.String("journal_id", journalID),
		slog.String("company_id", companyID))
	return posted, nil
}

func (s *ledgerService) GetEntry(ctx context.Context, companyID, journalID, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	entry, err := s.journalRepo.FindJournalByID(ctx, companyID, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal", slog.String("journal_id", journalID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, companyID string, params dto.ListJournalsParams, userID string) (*dto.ListJournalsResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	journals, next, err := s.journalRepo.ListJournals(ctx, companyID, portsrepo.JournalListParams{
		Limit:     params.Limit,
		NextToken: params.NextToken,
		Posted:    params.Posted,
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list journals", slog.String("company_id", companyID))
		}
		return nil, err
	}
	return &dto.ListJournalsResponse{
		Journals:  dto.ToJournalResponses(journals),
		NextToken: next,
	}, nil
}

// subtreeLines returns the account with the posted lines of its subtree.
func (s *ledgerService) subtreeLines(ctx context.Context, companyID, accountID string, dates domain.DateRange) (domain.Account, *domain.AccountTree, []domain.PostedLine, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		return domain.Account{}, nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	tree := domain.NewAccountTree(accounts)
	account, ok := tree.Get(accountID)
	if !ok {
		return domain.Account{}, nil, nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	lines, err := s.journalRepo.ListPostedLinesInTx(ctx, nil, companyID, domain.Descendants(tree, accountID), dates)
	if err != nil {
		return domain.Account{}, nil, nil, fmt.Errorf("failed to list ledger lines: %w", err)
	}
	return account, tree, lines, nil
}

// ComputeAccountBalance rolls the posted lines of the account and all of
// its descendants up to asOf and signs the result by normal balance.
func (s *ledgerService) ComputeAccountBalance(ctx context.Context, companyID, accountID string, asOf *time.Time, userID string) (*domain.AccountBalance, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	var dates domain.DateRange
	if asOf != nil {
		dates.To = *asOf
	}
	account, tree, lines, err := s.subtreeLines(ctx, companyID, accountID, dates)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to compute account balance", slog.String("account_id", accountID))
		}
		return nil, err
	}
	sum := domain.RollUp(tree, domain.SumByAccount(lines), accountID)
	return &domain.AccountBalance{
		AccountID:     account.AccountID,
		Code:          account.Code,
		NormalBalance: account.NormalBalance,
		AsOf:          asOf,
		Debit:         sum.Debit,
		Credit:        sum.Credit,
		Balance:       account.NormalBalance.Signed(sum.Debit, sum.Credit),
	}, nil
}

// AccountLedger returns the latest limit rows of the subtree's ledger. The
// running balance covers the full history, not only the returned rows.
func (s *ledgerService) AccountLedger(ctx context.Context, companyID, accountID string, limit int, userID string) ([]domain.LedgerRow, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	account, _, lines, err := s.subtreeLines(ctx, companyID, accountID, domain.DateRange{})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to build account ledger", slog.String("account_id", accountID))
		}
		return nil, err
	}
	rows := domain.RunningLedger(account.NormalBalance, lines)
	if len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	return rows, nil
}

// isBusinessError reports whether err is an expected outcome of the rules
// rather than an infrastructure failure.
func isBusinessError(err error) bool {
	for _, target := range []error{
		apperrors.ErrValidation, apperrors.ErrNotFound, apperrors.ErrDuplicate, apperrors.ErrForbidden,
		apperrors.ErrImbalance, apperrors.ErrAlreadyPosted, apperrors.ErrInsufficientStock,
		apperrors.ErrNoCostBasis, apperrors.ErrCreditLimitExceeded, apperrors.ErrExactSettlementRequired,
		apperrors.ErrOverpayment, apperrors.ErrMissingAccount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
