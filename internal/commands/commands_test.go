package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/core/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/SscSPs/smb_books_app/internal/platform/config"
	"github.com/SscSPs/smb_books_app/internal/repositories/memory"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryRuntime() (*runtime, *portssvc.ServiceContainer) {
	cfg := &config.Config{
		StorageDriver:     config.StorageMemory,
		JWTSecret:         "cli-test-secret",
		JWTIssuer:         "smb-test",
		JWTExpiryDuration: time.Hour,
		Accounting:        config.DefaultAccountingConfig(),
	}
	svc := services.NewServiceContainer(cfg, memory.NewRepositoryProvider(memory.NewStore()))
	return &runtime{
		loadConfig: func() (*config.Config, error) { return cfg, nil },
		openServices: func(context.Context, *config.Config) (*portssvc.ServiceContainer, func(), error) {
			return svc, func() {}, nil
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, svc
}

func execute(rt *runtime, args ...string) (string, error) {
	cmd := newRootCommand(rt)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	rt, _ := memoryRuntime()

	out, err := execute(rt, "token", "--user", "u-42")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(string(bytes.TrimSpace([]byte(out))), claims, func(*jwt.Token) (interface{}, error) {
		return []byte("cli-test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "u-42", claims.Subject)
	assert.Equal(t, "smb-test", claims.Issuer)
}

func TestTokenCommandRequiresUser(t *testing.T) {
	rt, _ := memoryRuntime()
	_, err := execute(rt, "token")
	assert.Error(t, err)
}

func TestCompanyCreateThenSeed(t *testing.T) {
	rt, _ := memoryRuntime()

	out, err := execute(rt, "company", "create", "--name", "Acme Trading", "--user", "owner")
	require.NoError(t, err)
	var company dto.CompanyResponse
	require.NoError(t, json.Unmarshal([]byte(out), &company))
	assert.Equal(t, "Acme Trading", company.Name)
	require.NotEmpty(t, company.CompanyID)

	out, err = execute(rt, "company", "seed-accounts", "--company", company.CompanyID, "--user", "owner")
	require.NoError(t, err)
	assert.Equal(t, "created 0 accounts\n", out)

	_, err = execute(rt, "company", "seed-accounts", "--company", company.CompanyID, "--user", "stranger")
	assert.Error(t, err)
}

func TestMigrateRejectsMemoryStorage(t *testing.T) {
	rt, _ := memoryRuntime()

	_, err := execute(rt, "migrate", "up")
	assert.Error(t, err)

	_, err = execute(rt, "migrate", "sideways")
	assert.Error(t, err)
}

func TestAutoMatchCommandIsIdempotent(t *testing.T) {
	rt, svc := memoryRuntime()
	ctx := context.Background()
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	company, err := svc.Company.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "Acme"}, "owner")
	require.NoError(t, err)
	bank, err := svc.Reconciliation.CreateBankAccount(ctx, company.CompanyID, dto.CreateBankAccountRequest{
		AccountNumber: "6222-0001", BankName: "ICBC",
	}, "owner")
	require.NoError(t, err)
	_, err = svc.Reconciliation.CreateStatementLine(ctx, company.CompanyID, bank.BankAccountID, dto.CreateStatementRequest{
		Date: day.AddDate(0, 0, 2), Amount: decimal.NewFromInt(300), Type: domain.StatementCredit,
	}, "owner")
	require.NoError(t, err)

	accounts, err := svc.Account.ListAccounts(ctx, company.CompanyID, "", "owner")
	require.NoError(t, err)
	byCode := map[string]string{}
	for _, a := range accounts {
		byCode[a.Code] = a.AccountID
	}
	entry, err := svc.Ledger.CreateEntry(ctx, company.CompanyID, dto.CreateJournalRequest{
		Date: day,
		Lines: []dto.LedgerLineRequest{
			{AccountID: byCode[domain.CodeBankDeposits], Debit: decimal.NewFromInt(300)},
			{AccountID: byCode[domain.CodeMainRevenue], Credit: decimal.NewFromInt(300)},
		},
	}, "owner")
	require.NoError(t, err)
	_, err = svc.Ledger.PostEntry(ctx, company.CompanyID, entry.JournalID, "owner")
	require.NoError(t, err)

	args := []string{"reconcile", "auto-match", "--company", company.CompanyID,
		"--bank-account", bank.BankAccountID, "--user", "owner", "--from", "2026-05-01", "--to", "2026-05-31"}

	out, err := execute(rt, args...)
	require.NoError(t, err)
	var first dto.AutoMatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	require.Equal(t, 1, first.MatchedCount)
	assert.Equal(t, entry.JournalID, first.Reconciliations[0].JournalID)

	out, err = execute(rt, args...)
	require.NoError(t, err)
	var second dto.AutoMatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.Zero(t, second.MatchedCount)
}

func TestParseRange(t *testing.T) {
	dates, err := parseRange("2026-01-01", "")
	require.NoError(t, err)
	assert.True(t, dates.To.IsZero())

	_, err = parseRange("2026-02-01", "2026-01-01")
	assert.Error(t, err)

	_, err = parseRange("01/02/2026", "")
	assert.Error(t, err)
}
