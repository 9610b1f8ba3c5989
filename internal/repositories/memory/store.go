// Package memory is an in-process implementation of the repository ports.
// Transactions are serialized: Begin takes a store-wide lock that is held
// until Commit or Rollback, and Rollback restores the snapshot taken at Begin.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// Store holds every table of the in-memory database.
type Store struct {
	txMu sync.Mutex   // held from Begin to Commit/Rollback, and around standalone writes
	mu   sync.RWMutex // guards data
	data *dataset
}

type dataset struct {
	companies      map[string]domain.Company
	members        map[string]map[string]domain.Membership // company -> user -> membership
	accounts       map[string]domain.Account
	journals       map[string]domain.JournalEntry
	items          map[string]domain.InventoryItem // itemKey(company, product)
	invTxns        []domain.InventoryTransaction
	purchaseOrders map[string]domain.PurchaseOrder
	salesOrders    map[string]domain.SalesOrder
	payments       []domain.Payment
	receipts       []domain.Receipt
	suppliers      map[string]domain.Supplier
	customers      map[string]domain.Customer
	products       map[string]domain.Product
	bankAccounts   map[string]domain.BankAccount
	statements     map[string]domain.BankStatement
	recs           map[string]domain.Reconciliation
}

func newDataset() *dataset {
	return &dataset{
		companies:      make(map[string]domain.Company),
		members:        make(map[string]map[string]domain.Membership),
		accounts:       make(map[string]domain.Account),
		journals:       make(map[string]domain.JournalEntry),
		items:          make(map[string]domain.InventoryItem),
		purchaseOrders: make(map[string]domain.PurchaseOrder),
		salesOrders:    make(map[string]domain.SalesOrder),
		suppliers:      make(map[string]domain.Supplier),
		customers:      make(map[string]domain.Customer),
		products:       make(map[string]domain.Product),
		bankAccounts:   make(map[string]domain.BankAccount),
		statements:     make(map[string]domain.BankStatement),
		recs:           make(map[string]domain.Reconciliation),
	}
}

func copyMap[K comparable, V any](m map[K]V, cp func(V) V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		if cp != nil {
			v = cp(v)
		}
		out[k] = v
	}
	return out
}

func copyJournal(j domain.JournalEntry) domain.JournalEntry {
	j.Lines = append([]domain.LedgerLine(nil), j.Lines...)
	return j
}

func copyItems(items []domain.OrderItem) []domain.OrderItem {
	return append([]domain.OrderItem(nil), items...)
}

func (d *dataset) clone() *dataset {
	members := make(map[string]map[string]domain.Membership, len(d.members))
	for k, v := range d.members {
		members[k] = copyMap(v, nil)
	}
	return &dataset{
		companies: copyMap(d.companies, nil),
		members:   members,
		accounts:  copyMap(d.accounts, nil),
		journals:  copyMap(d.journals, copyJournal),
		items:     copyMap(d.items, nil),
		invTxns:   append([]domain.InventoryTransaction(nil), d.invTxns...),
		purchaseOrders: copyMap(d.purchaseOrders, func(o domain.PurchaseOrder) domain.PurchaseOrder {
			o.Items = copyItems(o.Items)
			return o
		}),
		salesOrders: copyMap(d.salesOrders, func(o domain.SalesOrder) domain.SalesOrder {
			o.Items = copyItems(o.Items)
			return o
		}),
		payments:     append([]domain.Payment(nil), d.payments...),
		receipts:     append([]domain.Receipt(nil), d.receipts...),
		suppliers:    copyMap(d.suppliers, nil),
		customers:    copyMap(d.customers, nil),
		products:     copyMap(d.products, nil),
		bankAccounts: copyMap(d.bankAccounts, nil),
		statements:   copyMap(d.statements, nil),
		recs:         copyMap(d.recs, nil),
	}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

// memTx is the handle returned by Begin. Only Commit and Rollback are
// implemented; the embedded interface is nil.
type memTx struct {
	pgx.Tx
	store    *Store
	snapshot *dataset
	done     bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.snapshot = nil
	t.store.txMu.Unlock()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.mu.Lock()
	t.store.data = t.snapshot
	t.store.mu.Unlock()
	t.snapshot = nil
	t.store.txMu.Unlock()
	return nil
}

// Begin starts a transaction. It blocks while another transaction is open.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	s.txMu.Lock()
	if err := ctx.Err(); err != nil {
		s.txMu.Unlock()
		return nil, err
	}
	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()
	return &memTx{store: s, snapshot: snapshot}, nil
}

func (s *Store) Commit(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

func (s *Store) Rollback(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

// read runs fn under the read lock.
func (s *Store) read(fn func(d *dataset) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// write runs fn under the write lock. Without a tx the write is its own
// transaction: it waits for open transactions and is not undone by their rollback.
func (s *Store) write(tx pgx.Tx, fn func(d *dataset) error) error {
	if tx == nil {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	} else if mt, ok := tx.(*memTx); !ok || mt.store != s || mt.done {
		return pgx.ErrTxClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// NewRepositoryProvider wires the store into every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:      s,
		CompanyRepo:    s,
		AccountRepo:    s,
		JournalRepo:    s,
		InventoryRepo:  s,
		OrderRepo:      s,
		SettlementRepo: s,
		PartyRepo:      s,
		BankRepo:       s,
	}
}

var (
	_ portsrepo.TransactionManager         = (*Store)(nil)
	_ portsrepo.CompanyRepositoryFacade    = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade    = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade    = (*Store)(nil)
	_ portsrepo.InventoryRepositoryFacade  = (*Store)(nil)
	_ portsrepo.OrderRepositoryFacade      = (*Store)(nil)
	_ portsrepo.SettlementRepositoryFacade = (*Store)(nil)
	_ portsrepo.PartyRepositoryFacade      = (*Store)(nil)
	_ portsrepo.BankRepositoryFacade       = (*Store)(nil)
)
