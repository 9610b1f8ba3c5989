// Package chart ships the standard chart of accounts seeded into new companies.
package chart

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed standard_chart.yaml
var standardChart []byte

// Template is a named list of account definitions.
type Template struct {
	Name     string       `yaml:"name"`
	Accounts []AccountDef `yaml:"accounts"`
}

// AccountDef describes one seeded account.
type AccountDef struct {
	Code          string               `yaml:"code"`
	Name          string               `yaml:"name"`
	Type          domain.AccountType   `yaml:"type"`
	NormalBalance domain.NormalBalance `yaml:"normal_balance,omitempty"`
}

// Parse decodes and validates a template.
func Parse(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing chart template: %w", err)
	}
	seen := make(map[string]bool, len(t.Accounts))
	for i, def := range t.Accounts {
		if def.Code == "" || def.Name == "" {
			return nil, fmt.Errorf("chart template entry %d: code and name are required", i)
		}
		if !def.Type.Valid() {
			return nil, fmt.Errorf("chart template entry %s: unknown type %q", def.Code, def.Type)
		}
		if def.NormalBalance != "" && !def.NormalBalance.Valid() {
			return nil, fmt.Errorf("chart template entry %s: unknown normal balance %q", def.Code, def.NormalBalance)
		}
		if seen[def.Code] {
			return nil, fmt.Errorf("chart template entry %s: duplicate code", def.Code)
		}
		seen[def.Code] = true
	}
	return &t, nil
}

// Standard returns the embedded standard template.
func Standard() *Template {
	t, err := Parse(standardChart)
	if err != nil {
		panic(err)
	}
	return t
}

// Codes lists the template's account codes in order.
func (t *Template) Codes() []string {
	codes := make([]string, 0, len(t.Accounts))
	for _, def := range t.Accounts {
		codes = append(codes, def.Code)
	}
	return codes
}

// Materialize builds the template accounts for a company, skipping codes in existing.
func (t *Template) Materialize(companyID, userID string, existing map[string]bool, now time.Time) []domain.Account {
	out := make([]domain.Account, 0, len(t.Accounts))
	for _, def := range t.Accounts {
		if existing[def.Code] {
			continue
		}
		normal := def.NormalBalance
		if normal == "" {
			normal = domain.DefaultNormalBalance(def.Type)
		}
		out = append(out, domain.Account{
			AccountID:     uuid.NewString(),
			CompanyID:     companyID,
			Code:          def.Code,
			Name:          def.Name,
			Type:          def.Type,
			NormalBalance: normal,
			BalanceDebit:  decimal.Zero,
			BalanceCredit: decimal.Zero,
			IsCore:        true,
			Path:          def.Code,
			AuditFields:   domain.NewAuditFields(userID, now),
		})
	}
	return out
}
