package uowmock

import (
	"context"
	"errors"

	"lakay-collateral/internal/domain/member"
	"lakay-collateral/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinMemberTxFn func(ctx context.Context, memberID string, fn func(r uow.Repos, m *member.Member) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinMemberTx(fn func(context.Context, string, func(uow.Repos, *member.Member) error) error) *UoW {
	m.WithinMemberTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinMemberTx(ctx context.Context, memberID string, fn func(r uow.Repos, m *member.Member) error) error {
	if m.WithinMemberTxFn != nil {
		return m.WithinMemberTxFn(ctx, memberID, fn)
	}
	return errUnimplemented
}

// Passthrough builds a UoW whose member tx simply runs fn against the given
// repos, no transaction semantics. Handy for usecase tests on mocks.
func Passthrough(r uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(r)
		},
		WithinMemberTxFn: func(ctx context.Context, memberID string, fn func(uow.Repos, *member.Member) error) error {
			return fn(r, &member.Member{MemberID: memberID})
		},
	}
}
