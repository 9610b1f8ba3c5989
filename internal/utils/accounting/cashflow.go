package accounting

import (
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	cashInSources  = map[domain.SourceType]bool{domain.SourceSalesOrder: true, domain.SourceReceipt: true, domain.SourceManual: true}
	cashOutSources = map[domain.SourceType]bool{domain.SourcePurchaseOrder: true, domain.SourcePayment: true, domain.SourceManual: true}
)

// SubtreeIDs returns the account with the given code and every account below it.
func SubtreeIDs(tree *domain.AccountTree, code string) map[string]bool {
	out := make(map[string]bool)
	acc, ok := tree.FindByCode(code)
	if !ok {
		return out
	}
	for _, id := range domain.Descendants(tree, acc.AccountID) {
		out[id] = true
	}
	return out
}

// CashAccountIDs returns the cash and bank deposit subtrees.
func CashAccountIDs(tree *domain.AccountTree) map[string]bool {
	out := SubtreeIDs(tree, domain.CodeCash)
	for id := range SubtreeIDs(tree, domain.CodeBankDeposits) {
		out[id] = true
	}
	return out
}

// BuildCashFlow classifies the cash lines of the period's posted entries.
// Cash received is operating when it comes from a sale, receipt or manual
// entry against revenue or receivables; cash paid is operating when it goes
// to a purchase, payment or manual entry against expenses or payables.
// cashToDate must hold every posted line on cash accounts up to the period end.
func BuildCashFlow(tree *domain.AccountTree, period, cashToDate []domain.PostedLine, from, to time.Time) domain.CashFlowStatement {
	cash := CashAccountIDs(tree)
	receivable := SubtreeIDs(tree, domain.CodeAccountsReceivable)
	payable := SubtreeIDs(tree, domain.CodeAccountsPayable)

	var order []string
	byJournal := make(map[string][]domain.PostedLine)
	for _, l := range period {
		if _, seen := byJournal[l.JournalID]; !seen {
			order = append(order, l.JournalID)
		}
		byJournal[l.JournalID] = append(byJournal[l.JournalID], l)
	}

	report := domain.CashFlowStatement{
		From:      from,
		To:        to,
		Operating: newCashFlowSection(),
		Other:     newCashFlowSection(),
	}
	for _, id := range order {
		lines := byJournal[id]
		var cashLines, counters []domain.PostedLine
		for _, l := range lines {
			if cash[l.AccountID] {
				cashLines = append(cashLines, l)
			} else {
				counters = append(counters, l)
			}
		}
		if len(cashLines) == 0 || len(counters) == 0 {
			continue
		}
		source := lines[0].SourceType
		inOperating := cashInSources[source] && anyCounter(tree, counters, domain.Revenue, receivable)
		outOperating := cashOutSources[source] && anyCounter(tree, counters, domain.Expense, payable)

		for _, l := range cashLines {
			if l.Debit.IsPositive() {
				if inOperating {
					report.Operating.CashIn = report.Operating.CashIn.Add(l.Debit)
				} else {
					report.Other.CashIn = report.Other.CashIn.Add(l.Debit)
				}
			}
			if l.Credit.IsPositive() {
				if outOperating {
					report.Operating.CashOut = report.Operating.CashOut.Add(l.Credit)
				} else {
					report.Other.CashOut = report.Other.CashOut.Add(l.Credit)
				}
			}
		}
	}
	report.Operating.Net = report.Operating.CashIn.Sub(report.Operating.CashOut)
	report.Other.Net = report.Other.CashIn.Sub(report.Other.CashOut)
	report.NetCashFlow = report.Operating.Net.Add(report.Other.Net)

	before := domain.DateRange{To: from.AddDate(0, 0, -1)}
	report.OpeningCash, report.ClosingCash = decimal.Zero, decimal.Zero
	for _, l := range cashToDate {
		if !cash[l.AccountID] {
			continue
		}
		delta := l.Debit.Sub(l.Credit)
		report.ClosingCash = report.ClosingCash.Add(delta)
		if before.Contains(l.Date) {
			report.OpeningCash = report.OpeningCash.Add(delta)
		}
	}
	return report
}

func newCashFlowSection() domain.CashFlowSection {
	return domain.CashFlowSection{CashIn: decimal.Zero, CashOut: decimal.Zero, Net: decimal.Zero}
}

func anyCounter(tree *domain.AccountTree, counters []domain.PostedLine, t domain.AccountType, control map[string]bool) bool {
	for _, l := range counters {
		if control[l.AccountID] {
			return true
		}
		if acc, ok := tree.Get(l.AccountID); ok && acc.Type == t {
			return true
		}
	}
	return false
}
