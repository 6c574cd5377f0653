package membermock

import (
	"context"

	domain "lakay-collateral/internal/domain/member"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies member.Repository.
// Fill in the function fields a test needs; unfilled lookups report not found.
type Repo struct {
	CreateFn                 func(ctx context.Context, m *domain.Member) error
	GetByMemberIDFn          func(ctx context.Context, memberID string) (*domain.Member, error)
	GetByMemberIDForUpdateFn func(ctx context.Context, memberID string) (*domain.Member, error)
}

func (m *Repo) Create(ctx context.Context, mb *domain.Member) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, mb)
	}
	return nil
}

func (m *Repo) GetByMemberID(ctx context.Context, memberID string) (*domain.Member, error) {
	if m.GetByMemberIDFn != nil {
		return m.GetByMemberIDFn(ctx, memberID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByMemberIDForUpdate(ctx context.Context, memberID string) (*domain.Member, error) {
	if m.GetByMemberIDForUpdateFn != nil {
		return m.GetByMemberIDForUpdateFn(ctx, memberID)
	}
	return nil, domain.ErrNotFound
}
