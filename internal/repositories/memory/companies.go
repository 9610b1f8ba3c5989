package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

func (s *Store) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	var out *domain.Company
	err := s.read(func(d *dataset) error {
		c, ok := d.companies[companyID]
		if !ok {
			return apperrors.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (s *Store) ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error) {
	out := []domain.Company{}
	err := s.read(func(d *dataset) error {
		for companyID, members := range d.members {
			if _, ok := members[userID]; ok {
				if c, ok := d.companies[companyID]; ok {
					out = append(out, c)
				}
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (s *Store) SaveCompanyInTx(ctx context.Context, tx pgx.Tx, company domain.Company) error {
	return s.write(tx, func(d *dataset) error {
		if _, ok := d.companies[company.CompanyID]; ok {
			return apperrors.ErrDuplicate
		}
		d.companies[company.CompanyID] = company
		return nil
	})
}

func (s *Store) SaveMembershipInTx(ctx context.Context, tx pgx.Tx, m domain.Membership) error {
	return s.write(tx, func(d *dataset) error {
		if _, ok := d.companies[m.CompanyID]; !ok {
			return apperrors.ErrNotFound
		}
		if d.members[m.CompanyID] == nil {
			d.members[m.CompanyID] = make(map[string]domain.Membership)
		}
		if prev, ok := d.members[m.CompanyID][m.UserID]; ok {
			m.JoinedAt = prev.JoinedAt
		}
		d.members[m.CompanyID][m.UserID] = m
		return nil
	})
}

func (s *Store) FindMembership(ctx context.Context, companyID, userID string) (*domain.Membership, error) {
	var out *domain.Membership
	err := s.read(func(d *dataset) error {
		m, ok := d.members[companyID][userID]
		if !ok {
			return apperrors.ErrNotFound
		}
		out = &m
		return nil
	})
	return out, err
}

func (s *Store) ListMembers(ctx context.Context, companyID string) ([]domain.Membership, error) {
	out := []domain.Membership{}
	err := s.read(func(d *dataset) error {
		for _, m := range d.members[companyID] {
			out = append(out, m)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out, err
}
