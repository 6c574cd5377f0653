package collateralmock

import (
	"context"

	domain "lakay-collateral/internal/domain/collateral"
	"lakay-collateral/internal/domain/loanref"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies collateral.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, r *domain.Record) error
	SaveFn               func(ctx context.Context, r *domain.Record) error
	GetActiveByLoanRefFn func(ctx context.Context, ref loanref.Ref) (*domain.Record, error)
	GetByLoanRefFn       func(ctx context.Context, ref loanref.Ref) (*domain.Record, error)
	ListRecordsFn        func(ctx context.Context, f domain.Filter) ([]domain.Record, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Record) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, r *domain.Record) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetActiveByLoanRef(ctx context.Context, ref loanref.Ref) (*domain.Record, error) {
	if m.GetActiveByLoanRefFn != nil {
		return m.GetActiveByLoanRefFn(ctx, ref)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByLoanRef(ctx context.Context, ref loanref.Ref) (*domain.Record, error) {
	if m.GetByLoanRefFn != nil {
		return m.GetByLoanRefFn(ctx, ref)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListRecords(ctx context.Context, f domain.Filter) ([]domain.Record, error) {
	if m.ListRecordsFn != nil {
		return m.ListRecordsFn(ctx, f)
	}
	return nil, nil
}
