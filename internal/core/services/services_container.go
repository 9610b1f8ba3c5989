package services

import (
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	acct := config.DefaultAccountingConfig()
	if cfg != nil {
		acct = cfg.Accounting
	}

	container := &portssvc.ServiceContainer{}

	// Company service first: every other service authorizes through it.
	container.Company = NewCompanyService(repos.TxManager, repos.CompanyRepo, repos.AccountRepo)
	authorizer := container.Company.(portssvc.CompanyAuthorizerSvc)

	container.Account = NewAccountService(repos.TxManager, repos.AccountRepo, WithAccountAuthorizer(authorizer))
	container.Ledger = NewLedgerService(repos.TxManager, repos.AccountRepo, repos.JournalRepo,
		WithLedgerAuthorizer(authorizer),
		WithBalanceTolerance(acct.BalanceTolerance),
	)
	container.Inventory = NewInventoryService(repos.TxManager, repos.InventoryRepo, repos.PartyRepo,
		WithInventoryAuthorizer(authorizer),
	)
	container.Party = NewPartyService(repos.PartyRepo, WithPartyAuthorizer(authorizer))
	container.Order = NewOrderService(repos,
		WithOrderAuthorizer(authorizer),
		WithOrderBalanceTolerance(acct.BalanceTolerance),
	)
	container.Settlement = NewSettlementService(repos,
		WithSettlementAuthorizer(authorizer),
		WithSettlementBalanceTolerance(acct.BalanceTolerance),
	)
	container.Reconciliation = NewReconciliationService(repos,
		WithReconciliationAuthorizer(authorizer),
		WithMatchRule(domain.MatchRule{
			AmountTolerance: acct.ReconcileAmountTolerance,
			DateWindowDays:  acct.ReconcileDateWindowDays,
		}),
	)
	container.Reporting = NewReportingService(repos.AccountRepo, repos.JournalRepo,
		WithReportingAuthorizer(authorizer),
		WithReportingTolerance(acct.BalanceTolerance),
	)

	return container
}
