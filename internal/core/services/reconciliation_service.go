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

const autoMatchRemark = "auto"

// reconciliationService manages bank accounts and statement lines and
// matches them against posted journal entries.
type reconciliationService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	bankRepo    portsrepo.BankRepositoryFacade
	rule        domain.MatchRule
}

type ReconciliationServiceOption func(*reconciliationService)

func WithReconciliationAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.Authorizer = authorizer
	}
}

// WithMatchRule overrides the auto-match amount tolerance and date window.
func WithMatchRule(rule domain.MatchRule) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.rule = rule
	}
}

func NewReconciliationService(repos portsrepo.RepositoryProvider, options ...ReconciliationServiceOption) portssvc.ReconciliationSvcFacade {
	svc := &reconciliationService{
		txManager:   repos.TxManager,
		accountRepo: repos.AccountRepo,
		journalRepo: repos.JournalRepo,
		bankRepo:    repos.BankRepo,
		rule:        domain.DefaultMatchRule,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

func (s *reconciliationService) CreateBankAccount(ctx context.Context, companyID string, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermBankManage); err != nil {
		return nil, err
	}

	var ledger *domain.Account
	var err error
	if req.LedgerAccountID != nil && *req.LedgerAccountID != "" {
		ledger, err = s.accountRepo.FindAccountByID(ctx, companyID, *req.LedgerAccountID)
		if err != nil {
			return nil, apperrors.NewValidationError("ledgerAccountID", "account %s not found", *req.LedgerAccountID)
		}
	} else {
		ledger, err = s.accountRepo.FindAccountByCode(ctx, companyID, domain.CodeBankDeposits)
		if err != nil {
			return nil, &apperrors.MissingAccountError{Codes: []string{domain.CodeBankDeposits}}
		}
	}
	if ledger.Type != domain.Asset {
		return nil, apperrors.NewValidationError("ledgerAccountID", "bank accounts must be tied to an asset account")
	}

	currency := req.Currency
	if currency == "" {
		currency = "CNY"
	}
	now := time.Now().UTC()
	account := domain.BankAccount{
		BankAccountID:   uuid.NewString(),
		CompanyID:       companyID,
		AccountNumber:   req.AccountNumber,
		BankName:        req.BankName,
		Currency:        currency,
		InitialBalance:  domain.RoundMoney(req.InitialBalance),
		LedgerAccountID: ledger.AccountID,
		Remark:          req.Remark,
		CreatedAt:       now,
		CreatedBy:       userID,
	}
	if err := s.bankRepo.SaveBankAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save bank account", slog.String("company_id", companyID))
		return nil, err
	}
	s.LogInfo(ctx, "Bank account created successfully",
		slog.String("bank_account_id", account.BankAccountID),
		slog.String("company_id", companyID))
	return &account, nil
}

func (s *reconciliationService) GetBankAccount(ctx context.Context, companyID, bankAccountID, userID string) (*domain.BankAccount, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.bankRepo.FindBankAccount(ctx, companyID, bankAccountID)
}

func (s *reconciliationService) ListBankAccounts(ctx context.Context, companyID, userID string) ([]domain.BankAccount, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	return s.bankRepo.ListBankAccounts(ctx, companyID)
}

func (s *reconciliationService) CreateStatementLine(ctx context.Context, companyID, bankAccountID string, req dto.CreateStatementRequest, userID string) (*domain.BankStatement, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermBankManage); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, apperrors.NewValidationError("type", "statement type must be Credit or Debit")
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount", "amount must be positive")
	}
	if _, err := s.bankRepo.FindBankAccount(ctx, companyID, bankAccountID); err != nil {
		return nil, err
	}
	var balance *decimal.Decimal
	if req.Balance != nil {
		rounded := domain.RoundMoney(*req.Balance)
		balance = &rounded
	}
	stmt := domain.BankStatement{
		StatementID:   uuid.NewString(),
		CompanyID:     companyID,
		BankAccountID: bankAccountID,
		Date:          req.Date,
		Amount:        domain.RoundMoney(req.Amount),
		Type:          req.Type,
		Balance:       balance,
		Description:   req.Description,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.bankRepo.SaveStatement(ctx, stmt); err != nil {
		s.LogError(ctx, err, "Failed to save statement line", slog.String("bank_account_id", bankAccountID))
		return nil, err
	}
	return &stmt, nil
}

func (s *reconciliationService) ListStatementLines(ctx context.Context, companyID, bankAccountID string, dates domain.DateRange, userID string) ([]domain.BankStatement, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	if _, err := s.bankRepo.FindBankAccount(ctx, companyID, bankAccountID); err != nil {
		return nil, err
	}
	return s.bankRepo.ListStatementsInTx(ctx, nil, companyID, bankAccountID, dates)
}

// bankAccountSet is the GL subtree a bank account's money moves through.
func (s *reconciliationService) bankAccountSet(ctx context.Context, companyID string, bank *domain.BankAccount) (map[string]bool, []string, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	ids := domain.Descendants(domain.NewAccountTree(accounts), bank.LedgerAccountID)
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, ids, nil
}

// bankJournals loads the posted entries touching the bank subtree in range
// and nets each one against it.
func (s *reconciliationService) bankJournals(ctx context.Context, tx pgx.Tx, companyID string, set map[string]bool, ids []string, dates domain.DateRange) ([]domain.BankJournal, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	entries, err := s.journalRepo.ListPostedJournalsTouchingInTx(ctx, tx, companyID, ids, dates)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank journals: %w", err)
	}
	out := make([]domain.BankJournal, 0, len(entries))
	for i := range entries {
		if bj, ok := domain.NewBankJournal(&entries[i], set); ok {
			out = append(out, bj)
		}
	}
	return out, nil
}

func matchedJournalIDs(recs []domain.Reconciliation) map[string]bool {
	out := make(map[string]bool, len(recs))
	for _, r := range recs {
		out[r.JournalID] = true
	}
	return out
}

func widen(dates domain.DateRange, days int) domain.DateRange {
	if !dates.From.IsZero() {
		dates.From = dates.From.AddDate(0, 0, -days)
	}
	if !dates.To.IsZero() {
		dates.To = dates.To.AddDate(0, 0, days)
	}
	return dates
}

// AutoMatch pairs unreconciled statement lines in range with bank journals
// that no reconciliation references yet. Matching runs on one bank account
// serialize on its row lock.
func (s *reconciliationService) AutoMatch(ctx context.Context, companyID, bankAccountID string, dates domain.DateRange, userID string) ([]domain.Reconciliation, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermBankReconcile); err != nil {
		return nil, err
	}

	recs := []domain.Reconciliation{}
	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		bank, err := s.bankRepo.LockBankAccount(ctx, tx, companyID, bankAccountID)
		if err != nil {
			return err
		}
		set, ids, err := s.bankAccountSet(ctx, companyID, bank)
		if err != nil {
			return err
		}
		stmts, err := s.bankRepo.ListStatementsInTx(ctx, tx, companyID, bankAccountID, dates)
		if err != nil {
			return fmt.Errorf("failed to list statements: %w", err)
		}
		journals, err := s.bankJournals(ctx, tx, companyID, set, ids, widen(dates, s.rule.DateWindowDays))
		if err != nil {
			return err
		}
		existing, err := s.bankRepo.ListReconciliationsInTx(ctx, tx, companyID)
		if err != nil {
			return fmt.Errorf("failed to list reconciliations: %w", err)
		}

		pairs := domain.AutoMatch(stmts, journals, matchedJournalIDs(existing), s.rule)
		if len(pairs) == 0 {
			return nil
		}
		now := time.Now().UTC()
		stmtIDs := make([]string, 0, len(pairs))
		for _, p := range pairs {
			recs = append(recs, domain.Reconciliation{
				ReconciliationID: uuid.NewString(),
				CompanyID:        companyID,
				StatementID:      p.Statement.StatementID,
				JournalID:        p.Journal.JournalID,
				MatchedAmount:    p.Statement.Amount,
				MatchDate:        now,
				Remark:           autoMatchRemark,
				CreatedAt:        now,
				CreatedBy:        userID,
			})
			stmtIDs = append(stmtIDs, p.Statement.StatementID)
		}
		if err := s.bankRepo.SaveReconciliationsInTx(ctx, tx, recs); err != nil {
			return fmt.Errorf("failed to save reconciliations: %w", err)
		}
		if err := s.bankRepo.SetStatementsReconciledInTx(ctx, tx, stmtIDs, true); err != nil {
			return fmt.Errorf("failed to flag statements: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Auto-match failed",
			slog.String("company_id", companyID),
			slog.String("bank_account_id", bankAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Auto-match completed",
		slog.String("company_id", companyID),
		slog.String("bank_account_id", bankAccountID),
		slog.Int("matched", len(recs)))
	return recs, nil
}

// CreateReconciliation links a statement line to a journal entry without
// applying the matching heuristics.
func (s *reconciliationService) CreateReconciliation(ctx context.Context, companyID string, req dto.CreateReconciliationRequest, userID string) (*domain.Reconciliation, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermBankReconcile); err != nil {
		return nil, err
	}
	if _, err := s.journalRepo.FindJournalByID(ctx, companyID, req.JournalID); err != nil {
		return nil, apperrors.NewValidationError("journalID", "journal entry %s not found", req.JournalID)
	}

	var rec domain.Reconciliation
	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		stmt, err := s.bankRepo.FindStatementInTx(ctx, tx, companyID, req.StatementID)
		if err != nil {
			return err
		}
		amount := stmt.Amount
		if req.MatchedAmount != nil {
			if !req.MatchedAmount.IsPositive() {
				return apperrors.NewValidationError("matchedAmount", "matched amount must be positive")
			}
			amount = domain.RoundMoney(*req.MatchedAmount)
		}
		now := time.Now().UTC()
		rec = domain.Reconciliation{
			ReconciliationID: uuid.NewString(),
			CompanyID:        companyID,
			StatementID:      stmt.StatementID,
			JournalID:        req.JournalID,
			MatchedAmount:    amount,
			MatchDate:        now,
			Remark:           req.Remark,
			CreatedAt:        now,
			CreatedBy:        userID,
		}
		if err := s.bankRepo.SaveReconciliationsInTx(ctx, tx, []domain.Reconciliation{rec}); err != nil {
			return fmt.Errorf("failed to save reconciliation: %w", err)
		}
		return s.bankRepo.SetStatementsReconciledInTx(ctx, tx, []string{stmt.StatementID}, true)
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Reconciliation created successfully",
		slog.String("reconciliation_id", rec.ReconciliationID),
		slog.String("statement_id", rec.StatementID),
		slog.String("journal_id", rec.JournalID))
	return &rec, nil
}

func (s *reconciliationService) DeleteReconciliation(ctx context.Context, companyID, reconciliationID, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermBankReconcile); err != nil {
		return err
	}
	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		rec, err := s.bankRepo.FindReconciliationInTx(ctx, tx, companyID, reconciliationID)
		if err != nil {
			return err
		}
		if err := s.bankRepo.DeleteReconciliationInTx(ctx, tx, reconciliationID); err != nil {
			return fmt.Errorf("failed to delete reconciliation: %w", err)
		}
		left, err := s.bankRepo.CountReconciliationsForStatementInTx(ctx, tx, rec.StatementID)
		if err != nil {
			return fmt.Errorf("failed to count reconciliations: %w", err)
		}
		if left == 0 {
			return s.bankRepo.SetStatementsReconciledInTx(ctx, tx, []string{rec.StatementID}, false)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Reconciliation deleted successfully", slog.String("reconciliation_id", reconciliationID))
	return nil
}

func (s *reconciliationService) Workbench(ctx context.Context, companyID, bankAccountID string, dates domain.DateRange, userID string) (*domain.ReconciliationWorkbench, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	bank, err := s.bankRepo.FindBankAccount(ctx, companyID, bankAccountID)
	if err != nil {
		return nil, err
	}
	set, ids, err := s.bankAccountSet(ctx, companyID, bank)
	if err != nil {
		return nil, err
	}
	stmts, err := s.bankRepo.ListStatementsInTx(ctx, nil, companyID, bankAccountID, dates)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	journals, err := s.bankJournals(ctx, nil, companyID, set, ids, dates)
	if err != nil {
		return nil, err
	}
	recs, err := s.bankRepo.ListReconciliationsInTx(ctx, nil, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations: %w", err)
	}

	stmtByID := make(map[string]domain.BankStatement, len(stmts))
	for _, st := range stmts {
		stmtByID[st.StatementID] = st
	}
	journalByID := make(map[string]domain.BankJournal, len(journals))
	for _, j := range journals {
		journalByID[j.JournalID] = j
	}

	wb := &domain.ReconciliationWorkbench{
		Matched:             []domain.WorkbenchPair{},
		UnmatchedStatements: []domain.BankStatement{},
		UnmatchedJournals:   []domain.BankJournal{},
	}
	linkedStmts := make(map[string]bool)
	for _, r := range recs {
		st, ok := stmtByID[r.StatementID]
		if !ok {
			continue
		}
		linkedStmts[r.StatementID] = true
		j, ok := journalByID[r.JournalID]
		if !ok {
			entry, err := s.journalRepo.FindJournalByID(ctx, companyID, r.JournalID)
			if err != nil {
				return nil, fmt.Errorf("failed to load journal %s: %w", r.JournalID, err)
			}
			j = domain.BankJournal{JournalID: entry.JournalID, Date: entry.Date, Description: entry.Description, Amount: r.MatchedAmount}
		}
		wb.Matched = append(wb.Matched, domain.WorkbenchPair{
			ReconciliationID: r.ReconciliationID,
			MatchDate:        r.MatchDate,
			Statement:        st,
			Journal:          j,
		})
	}
	for _, st := range stmts {
		if !linkedStmts[st.StatementID] {
			wb.UnmatchedStatements = append(wb.UnmatchedStatements, st)
		}
	}
	matched := matchedJournalIDs(recs)
	for _, j := range journals {
		if !matched[j.JournalID] {
			wb.UnmatchedJournals = append(wb.UnmatchedJournals, j)
		}
	}
	return wb, nil
}

// AdjustmentSheet compares the bank-side balance with the book balance of
// the linked GL subtree as of a date.
func (s *reconciliationService) AdjustmentSheet(ctx context.Context, companyID, bankAccountID string, asOf time.Time, userID string) (*domain.AdjustmentSheet, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.PermCompanyRead); err != nil {
		return nil, err
	}
	bank, err := s.bankRepo.FindBankAccount(ctx, companyID, bankAccountID)
	if err != nil {
		return nil, err
	}
	set, ids, err := s.bankAccountSet(ctx, companyID, bank)
	if err != nil {
		return nil, err
	}
	upTo := domain.DateRange{To: asOf}

	stmts, err := s.bankRepo.ListStatementsInTx(ctx, nil, companyID, bankAccountID, upTo)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	lines, err := s.journalRepo.ListPostedLinesInTx(ctx, nil, companyID, ids, upTo)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank ledger lines: %w", err)
	}
	book := domain.BalanceDelta{}
	for _, d := range domain.SumByAccount(lines) {
		book.Debit = book.Debit.Add(d.Debit)
		book.Credit = book.Credit.Add(d.Credit)
	}
	journals, err := s.bankJournals(ctx, nil, companyID, set, ids, upTo)
	if err != nil {
		return nil, err
	}
	recs, err := s.bankRepo.ListReconciliationsInTx(ctx, nil, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations: %w", err)
	}

	var unmatchedStmts []domain.BankStatement
	for _, st := range stmts {
		if !st.IsReconciled {
			unmatchedStmts = append(unmatchedStmts, st)
		}
	}
	matched := matchedJournalIDs(recs)
	var unmatchedJournals []domain.BankJournal
	for _, j := range journals {
		if !matched[j.JournalID] {
			unmatchedJournals = append(unmatchedJournals, j)
		}
	}

	sheet := domain.BuildAdjustmentSheet(domain.AdjustmentSheet{
		BankAccountID: bankAccountID,
		AsOf:          asOf,
		BankBalance:   domain.StatementBalance(bank.InitialBalance, stmts),
		BookBalance:   book.Debit.Sub(book.Credit),
	}, unmatchedStmts, unmatchedJournals, s.rule.AmountTolerance)
	return &sheet, nil
}
