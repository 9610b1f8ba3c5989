package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists posted totals per account. Debit and credit totals match
// whenever every posted entry is balanced.
type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Balanced    bool              `json:"balanced"`
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// IncomeStatement represents a profit and loss report
type IncomeStatement struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	Revenue      []AccountAmount `json:"revenue"`
	Expenses     []AccountAmount `json:"expenses"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetProfit    decimal.Decimal `json:"netProfit"` // Total revenue minus total expenses
}

// BalanceSheet represents a balance sheet report
type BalanceSheet struct {
	AsOf              time.Time       `json:"asOf"`
	Assets            []AccountAmount `json:"assets"`
	Liabilities       []AccountAmount `json:"liabilities"`
	Equity            []AccountAmount `json:"equity"`
	CurrentYearProfit decimal.Decimal `json:"currentYearProfit"`
	TotalAssets       decimal.Decimal `json:"totalAssets"`
	TotalLiabilities  decimal.Decimal `json:"totalLiabilities"`
	TotalEquity       decimal.Decimal `json:"totalEquity"`
	Balanced          bool            `json:"balanced"`
}

// CashFlowSection is the cash received and paid for one class of activity.
type CashFlowSection struct {
	CashIn  decimal.Decimal `json:"cashIn"`
	CashOut decimal.Decimal `json:"cashOut"`
	Net     decimal.Decimal `json:"net"`
}

// CashFlowStatement reports movements of the cash and bank accounts over a
// period. Operating covers cash traced to sales, purchases and expenses;
// Other holds every remaining movement so that OpeningCash plus NetCashFlow
// equals ClosingCash. Transfers between cash accounts are left out.
type CashFlowStatement struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Operating   CashFlowSection `json:"operating"`
	Other       CashFlowSection `json:"other"`
	NetCashFlow decimal.Decimal `json:"netCashFlow"`
	OpeningCash decimal.Decimal `json:"openingCash"`
	ClosingCash decimal.Decimal `json:"closingCash"`
}

// AccountBalance is a point-in-time balance of one account including its descendants.
type AccountBalance struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	AsOf          *time.Time      `json:"asOf,omitempty"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
}

// LedgerRow is one line in an account ledger with the balance after it.
type LedgerRow struct {
	JournalID      string          `json:"journalID"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	AccountID      string          `json:"accountID"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Memo           string          `json:"memo,omitempty"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// PostedLine is a ledger line joined with its entry's date, as the reporting
// queries return it.
type PostedLine struct {
	LedgerLine
	Date        time.Time  `json:"date"`
	Description string     `json:"description"`
	SourceType  SourceType `json:"sourceType"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// SumByAccount aggregates posted lines per account.
func SumByAccount(lines []PostedLine) map[string]BalanceDelta {
	out := make(map[string]BalanceDelta)
	for _, l := range lines {
		d := out[l.AccountID]
		d.Debit = d.Debit.Add(l.Debit)
		d.Credit = d.Credit.Add(l.Credit)
		out[l.AccountID] = d
	}
	return out
}

// RunningLedger applies the normal balance sign to lines already in
// chronological order.
func RunningLedger(normal NormalBalance, lines []PostedLine) []LedgerRow {
	rows := make([]LedgerRow, 0, len(lines))
	running := decimal.Zero
	for _, l := range lines {
		running = running.Add(normal.Signed(l.Debit, l.Credit))
		rows = append(rows, LedgerRow{
			JournalID:      l.JournalID,
			Date:           l.Date,
			Description:    l.Description,
			AccountID:      l.AccountID,
			Debit:          l.Debit,
			Credit:         l.Credit,
			Memo:           l.Memo,
			RunningBalance: running,
		})
	}
	return rows
}
