// Package accounting holds the report-side arithmetic shared by the reporting
// and ledger services: roll-ups over the account tree and section sign rules.
package accounting

import (
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RootTotals rolls per-account totals up to every root account of the tree.
func RootTotals(tree *domain.AccountTree, totals map[string]domain.BalanceDelta) map[string]domain.BalanceDelta {
	out := make(map[string]domain.BalanceDelta, len(tree.Roots()))
	for _, id := range tree.Roots() {
		out[id] = domain.RollUp(tree, totals, id)
	}
	return out
}

// SectionSide is the side a statement section is presented on. Asset and
// expense sections read debit minus credit; the rest read credit minus debit.
func SectionSide(t domain.AccountType) domain.NormalBalance {
	return domain.DefaultNormalBalance(t)
}

// Section builds the lines of one statement section from the root accounts of
// the given type, skipping roots with nothing posted. It returns the lines
// in code order and their total.
func Section(tree *domain.AccountTree, rootTotals map[string]domain.BalanceDelta, t domain.AccountType) ([]domain.AccountAmount, decimal.Decimal) {
	side := SectionSide(t)
	lines := []domain.AccountAmount{}
	total := decimal.Zero
	for _, id := range tree.Roots() {
		acc, _ := tree.Get(id)
		if acc.Type != t {
			continue
		}
		d, ok := rootTotals[id]
		if !ok || (d.Debit.IsZero() && d.Credit.IsZero()) {
			continue
		}
		net := side.Signed(d.Debit, d.Credit)
		lines = append(lines, domain.AccountAmount{
			AccountID: acc.AccountID,
			Code:      acc.Code,
			Name:      acc.Name,
			NetAmount: net,
		})
		total = total.Add(net)
	}
	return lines, total
}

// WithinTolerance reports whether a and b differ by at most tol.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}
