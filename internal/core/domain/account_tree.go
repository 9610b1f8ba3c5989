package domain

import (
	"sort"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
)

// AccountTree is an arena of a company's accounts keyed by id, with a
// separately maintained parent -> children index. Traversals are plain
// functions over the tree rather than methods on the nodes.
type AccountTree struct {
	nodes    map[string]Account
	children map[string][]string // parent id -> child ids ordered by code; "" holds the roots
	byCode   map[string]string
}

// NewAccountTree indexes the given accounts. Accounts whose parent is not in
// the slice are treated as roots.
func NewAccountTree(accounts []Account) *AccountTree {
	t := &AccountTree{
		nodes:    make(map[string]Account, len(accounts)),
		children: make(map[string][]string),
		byCode:   make(map[string]string, len(accounts)),
	}
	for _, acc := range accounts {
		t.nodes[acc.AccountID] = acc
		t.byCode[acc.Code] = acc.AccountID
	}
	for _, acc := range accounts {
		parent := acc.ParentID
		if _, ok := t.nodes[parent]; !ok {
			parent = ""
		}
		t.children[parent] = append(t.children[parent], acc.AccountID)
	}
	for parent, ids := range t.children {
		sort.Slice(ids, func(i, j int) bool {
			return t.nodes[ids[i]].Code < t.nodes[ids[j]].Code
		})
		t.children[parent] = ids
	}
	return t
}

func (t *AccountTree) Len() int { return len(t.nodes) }

func (t *AccountTree) Get(id string) (Account, bool) {
	acc, ok := t.nodes[id]
	return acc, ok
}

func (t *AccountTree) FindByCode(code string) (Account, bool) {
	id, ok := t.byCode[code]
	if !ok {
		return Account{}, false
	}
	return t.nodes[id], true
}

// Children returns the direct children of id ordered by code.
func (t *AccountTree) Children(id string) []string {
	return t.children[id]
}

// Roots returns the top-level accounts ordered by code.
func (t *AccountTree) Roots() []string {
	return t.children[""]
}

// Descendants returns id followed by every account below it, depth first.
// Unknown ids yield an empty slice.
func Descendants(t *AccountTree, id string) []string {
	if _, ok := t.nodes[id]; !ok {
		return nil
	}
	out := []string{}
	seen := make(map[string]bool)
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		kids := t.children[cur]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}

// RootOf walks up from id to its top-level ancestor.
func RootOf(t *AccountTree, id string) string {
	cur := id
	seen := make(map[string]bool)
	for {
		acc, ok := t.nodes[cur]
		if !ok || seen[cur] {
			return cur
		}
		seen[cur] = true
		if _, ok := t.nodes[acc.ParentID]; !ok {
			return cur
		}
		cur = acc.ParentID
	}
}

// BuildPath computes the path for a new account with code under parentID.
func BuildPath(t *AccountTree, parentID, code string) string {
	if parentID == "" {
		return code
	}
	parent, ok := t.nodes[parentID]
	if !ok {
		return code
	}
	return ChildPath(&parent, code)
}

// RollUp sums per-account totals over id and all of its descendants.
func RollUp(t *AccountTree, totals map[string]BalanceDelta, id string) BalanceDelta {
	var sum BalanceDelta
	for _, acc := range Descendants(t, id) {
		d := totals[acc]
		sum.Debit = sum.Debit.Add(d.Debit)
		sum.Credit = sum.Credit.Add(d.Credit)
	}
	return sum
}

// CheckDeletable enforces the deletion guard: core accounts, accounts with
// children and accounts referenced by ledger lines stay.
func CheckDeletable(acc Account, hasChildren, hasLedgerLines bool) error {
	if acc.IsCore {
		return apperrors.NewValidationError("accountID", "core account %s cannot be deleted", acc.Code)
	}
	if hasChildren {
		return apperrors.NewValidationError("accountID", "account %s has child accounts", acc.Code)
	}
	if hasLedgerLines {
		return apperrors.NewValidationError("accountID", "account %s has ledger lines", acc.Code)
	}
	return nil
}

// AccountTreeNode is the nested view of the tree returned to clients.
type AccountTreeNode struct {
	Account
	Children []AccountTreeNode `json:"children"`
}

// Nest renders the arena as nested nodes starting from the roots.
func Nest(t *AccountTree) []AccountTreeNode {
	var build func(ids []string, depth int) []AccountTreeNode
	build = func(ids []string, depth int) []AccountTreeNode {
		nodes := make([]AccountTreeNode, 0, len(ids))
		if depth > len(t.nodes) {
			return nodes
		}
		for _, id := range ids {
			nodes = append(nodes, AccountTreeNode{
				Account:  t.nodes[id],
				Children: build(t.children[id], depth+1),
			})
		}
		return nodes
	}
	return build(t.Roots(), 0)
}
