package savingsmock

import (
	"context"

	"lakay-collateral/internal/domain/loanref"
	domain "lakay-collateral/internal/domain/savings"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies savings.Repository.
// Fill in the function fields a test needs; unfilled ones return zero values.
type Repo struct {
	CreateFn                func(ctx context.Context, t *domain.Transaction) error
	SaveFn                  func(ctx context.Context, t *domain.Transaction) error
	ListUnblockedByMemberFn func(ctx context.Context, memberID string) ([]domain.Transaction, error)
	ListBlockedByLoanFn     func(ctx context.Context, memberID string, ref loanref.Ref) ([]domain.Transaction, error)
	SumUnblockedFn          func(ctx context.Context, memberID string) (int64, error)
	SumBlockedByLoanFn      func(ctx context.Context, memberID string, ref loanref.Ref) (int64, error)
	SumAllFn                func(ctx context.Context, memberID string) (int64, error)
	ListByMemberFn          func(ctx context.Context, memberID string) ([]domain.Transaction, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, t *domain.Transaction) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}

func (m *Repo) ListUnblockedByMember(ctx context.Context, memberID string) ([]domain.Transaction, error) {
	if m.ListUnblockedByMemberFn != nil {
		return m.ListUnblockedByMemberFn(ctx, memberID)
	}
	return nil, nil
}

func (m *Repo) ListBlockedByLoan(ctx context.Context, memberID string, ref loanref.Ref) ([]domain.Transaction, error) {
	if m.ListBlockedByLoanFn != nil {
		return m.ListBlockedByLoanFn(ctx, memberID, ref)
	}
	return nil, nil
}

func (m *Repo) SumUnblocked(ctx context.Context, memberID string) (int64, error) {
	if m.SumUnblockedFn != nil {
		return m.SumUnblockedFn(ctx, memberID)
	}
	return 0, nil
}

func (m *Repo) SumBlockedByLoan(ctx context.Context, memberID string, ref loanref.Ref) (int64, error) {
	if m.SumBlockedByLoanFn != nil {
		return m.SumBlockedByLoanFn(ctx, memberID, ref)
	}
	return 0, nil
}

func (m *Repo) SumAll(ctx context.Context, memberID string) (int64, error) {
	if m.SumAllFn != nil {
		return m.SumAllFn(ctx, memberID)
	}
	return 0, nil
}

func (m *Repo) ListByMember(ctx context.Context, memberID string) ([]domain.Transaction, error) {
	if m.ListByMemberFn != nil {
		return m.ListByMemberFn(ctx, memberID)
	}
	return nil, nil
}
