package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// StatementType is the cash-flow direction of a bank statement line.
type StatementType string

const (
	StatementCredit StatementType = "Credit" // money in
	StatementDebit  StatementType = "Debit"  // money out
)

func (t StatementType) Valid() bool {
	return t == StatementCredit || t == StatementDebit
}

// BankAccount is a real-world bank account tied to a GL account subtree.
type BankAccount struct {
	BankAccountID   string          `json:"bankAccountID"`
	CompanyID       string          `json:"companyID"`
	AccountNumber   string          `json:"accountNumber"`
	BankName        string          `json:"bankName"`
	Currency        string          `json:"currency"`
	InitialBalance  decimal.Decimal `json:"initialBalance"`
	LedgerAccountID string          `json:"ledgerAccountID"`
	Remark          string          `json:"remark,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// BankStatement is one line of a bank statement. Amount is always positive;
// Type carries the direction.
type BankStatement struct {
	StatementID   string           `json:"statementID"`
	CompanyID     string           `json:"companyID"`
	BankAccountID string           `json:"bankAccountID"`
	Date          time.Time        `json:"date"`
	Amount        decimal.Decimal  `json:"amount"`
	Type          StatementType    `json:"type"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	Description   string           `json:"description,omitempty"`
	IsReconciled  bool             `json:"isReconciled"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// Signed returns the amount as a change to the bank balance.
func (s BankStatement) Signed() decimal.Decimal {
	if s.Type == StatementDebit {
		return s.Amount.Neg()
	}
	return s.Amount
}

// Reconciliation links one statement line to one journal entry.
type Reconciliation struct {
	ReconciliationID string          `json:"reconciliationID"`
	CompanyID        string          `json:"companyID"`
	StatementID      string          `json:"statementID"`
	JournalID        string          `json:"journalID"`
	MatchedAmount    decimal.Decimal `json:"matchedAmount"`
	MatchDate        time.Time       `json:"matchDate"`
	Remark           string          `json:"remark,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// BankJournal is a posted journal entry reduced to its effect on a bank
// account subtree: Amount is the absolute net movement, Inflow its direction.
type BankJournal struct {
	JournalID   string          `json:"journalID"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Inflow      bool            `json:"inflow"`
}

// NewBankJournal nets the entry's lines against the given bank accounts.
// ok is false when the entry does not move money in or out of them.
func NewBankJournal(entry *JournalEntry, bankAccountIDs map[string]bool) (BankJournal, bool) {
	net := decimal.Zero
	touched := false
	for _, l := range entry.Lines {
		if !bankAccountIDs[l.AccountID] {
			continue
		}
		touched = true
		net = net.Add(l.Debit).Sub(l.Credit)
	}
	if !touched || net.IsZero() {
		return BankJournal{}, false
	}
	return BankJournal{
		JournalID:   entry.JournalID,
		Date:        entry.Date,
		Description: entry.Description,
		Amount:      net.Abs(),
		Inflow:      net.IsPositive(),
	}, true
}

// MatchRule holds the auto-match thresholds.
type MatchRule struct {
	AmountTolerance decimal.Decimal
	DateWindowDays  int
}

// DefaultMatchRule matches within one cent and three days.
var DefaultMatchRule = MatchRule{AmountTolerance: decimal.New(1, -2), DateWindowDays: 3}

// Matches reports whether a statement line and a bank journal agree on
// amount, direction and date.
func (r MatchRule) Matches(s BankStatement, j BankJournal) bool {
	if (s.Type == StatementCredit) != j.Inflow {
		return false
	}
	if s.Amount.Abs().Sub(j.Amount).Abs().GreaterThan(r.AmountTolerance) {
		return false
	}
	return dayDiff(s.Date, j.Date) <= r.DateWindowDays
}

func dayDiff(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	d := int(da.Sub(db).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}

// MatchPair is one auto-match result.
type MatchPair struct {
	Statement BankStatement `json:"statement"`
	Journal   BankJournal   `json:"journal"`
}

// AutoMatch pairs unreconciled statement lines with unmatched bank journals.
// Statements are visited by date then id, and each takes the first journal
// (by date then id) that satisfies the rule. A journal matched in this run
// leaves the pool, as do journals already in matchedJournals.
func AutoMatch(statements []BankStatement, journals []BankJournal, matchedJournals map[string]bool, rule MatchRule) []MatchPair {
	stmts := make([]BankStatement, 0, len(statements))
	for _, s := range statements {
		if !s.IsReconciled {
			stmts = append(stmts, s)
		}
	}
	sort.SliceStable(stmts, func(i, j int) bool {
		if !stmts[i].Date.Equal(stmts[j].Date) {
			return stmts[i].Date.Before(stmts[j].Date)
		}
		return stmts[i].StatementID < stmts[j].StatementID
	})

	pool := make([]BankJournal, 0, len(journals))
	for _, j := range journals {
		if !matchedJournals[j.JournalID] {
			pool = append(pool, j)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if !pool[i].Date.Equal(pool[j].Date) {
			return pool[i].Date.Before(pool[j].Date)
		}
		return pool[i].JournalID < pool[j].JournalID
	})

	var pairs []MatchPair
	for _, s := range stmts {
		for k, j := range pool {
			if !rule.Matches(s, j) {
				continue
			}
			pairs = append(pairs, MatchPair{Statement: s, Journal: j})
			pool = append(pool[:k], pool[k+1:]...)
			break
		}
	}
	return pairs
}

// WorkbenchPair is an existing reconciliation with both sides resolved.
type WorkbenchPair struct {
	ReconciliationID string        `json:"reconciliationID"`
	MatchDate        time.Time     `json:"matchDate"`
	Statement        BankStatement `json:"statement"`
	Journal          BankJournal   `json:"journal"`
}

// ReconciliationWorkbench is the side-by-side view used for manual matching.
type ReconciliationWorkbench struct {
	Matched             []WorkbenchPair `json:"matched"`
	UnmatchedStatements []BankStatement `json:"unmatchedStatements"`
	UnmatchedJournals   []BankJournal   `json:"unmatchedJournals"`
}

// AdjustmentSheet is the bank balance adjustment statement: both balances
// adjusted by the items only one side has recorded.
type AdjustmentSheet struct {
	BankAccountID         string          `json:"bankAccountID"`
	AsOf                  time.Time       `json:"asOf"`
	BankBalance           decimal.Decimal `json:"bankBalance"`
	BookBalance           decimal.Decimal `json:"bookBalance"`
	BankReceivedNotBooked decimal.Decimal `json:"bankReceivedNotBooked"`
	BankPaidNotBooked     decimal.Decimal `json:"bankPaidNotBooked"`
	BookReceivedNotBank   decimal.Decimal `json:"bookReceivedNotBank"`
	BookPaidNotBank       decimal.Decimal `json:"bookPaidNotBank"`
	AdjustedBankBalance   decimal.Decimal `json:"adjustedBankBalance"`
	AdjustedBookBalance   decimal.Decimal `json:"adjustedBookBalance"`
	Balanced              bool            `json:"balanced"`
}

// BuildAdjustmentSheet fills the unmatched buckets and adjusted balances.
func BuildAdjustmentSheet(sheet AdjustmentSheet, unmatchedStatements []BankStatement, unmatchedJournals []BankJournal, tolerance decimal.Decimal) AdjustmentSheet {
	sheet.BankReceivedNotBooked = decimal.Zero
	sheet.BankPaidNotBooked = decimal.Zero
	sheet.BookReceivedNotBank = decimal.Zero
	sheet.BookPaidNotBank = decimal.Zero
	for _, s := range unmatchedStatements {
		if s.Type == StatementCredit {
			sheet.BankReceivedNotBooked = sheet.BankReceivedNotBooked.Add(s.Amount.Abs())
		} else {
			sheet.BankPaidNotBooked = sheet.BankPaidNotBooked.Add(s.Amount.Abs())
		}
	}
	for _, j := range unmatchedJournals {
		if j.Inflow {
			sheet.BookReceivedNotBank = sheet.BookReceivedNotBank.Add(j.Amount)
		} else {
			sheet.BookPaidNotBank = sheet.BookPaidNotBank.Add(j.Amount)
		}
	}
	sheet.AdjustedBankBalance = sheet.BankBalance.Add(sheet.BookReceivedNotBank).Sub(sheet.BookPaidNotBank)
	sheet.AdjustedBookBalance = sheet.BookBalance.Add(sheet.BankReceivedNotBooked).Sub(sheet.BankPaidNotBooked)
	sheet.Balanced = sheet.AdjustedBankBalance.Sub(sheet.AdjustedBookBalance).Abs().LessThanOrEqual(tolerance)
	return sheet
}

// StatementBalance is the bank-side balance: the latest statement's running
// balance when present, otherwise the initial balance plus signed amounts.
func StatementBalance(initial decimal.Decimal, statements []BankStatement) decimal.Decimal {
	var latest *BankStatement
	sum := initial
	for i := range statements {
		s := statements[i]
		sum = sum.Add(s.Signed())
		if s.Balance != nil && (latest == nil || !s.Date.Before(latest.Date)) {
			latest = &statements[i]
		}
	}
	if latest != nil {
		return *latest.Balance
	}
	return sum
}
