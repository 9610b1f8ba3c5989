package pgsql

import (
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	companyRepo := newPgxCompanyRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	inventoryRepo := newPgxInventoryRepository(dbPool)
	orderRepo := newPgxOrderRepository(dbPool)
	settlementRepo := newPgxSettlementRepository(dbPool)
	partyRepo := newPgxPartyRepository(dbPool)
	bankRepo := newPgxBankRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TxManager:      companyRepo,
		CompanyRepo:    companyRepo,
		AccountRepo:    accountRepo,
		JournalRepo:    journalRepo,
		InventoryRepo:  inventoryRepo,
		OrderRepo:      orderRepo,
		SettlementRepo: settlementRepo,
		PartyRepo:      partyRepo,
		BankRepo:       bankRepo,
	}
}
