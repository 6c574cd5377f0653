package loansourcemock

import (
	"context"

	domain "lakay-collateral/internal/domain/loan"
	"lakay-collateral/internal/domain/loanref"
)

// Ensure compile-time compliance
var _ domain.Source = (*Source)(nil)

// Source is a function-backed mock of the external loan module.
type Source struct {
	PrincipalFn           func(ctx context.Context, ref loanref.Ref) (int64, error)
	IsRepaymentCompleteFn func(ctx context.Context, ref loanref.Ref) (bool, error)
}

func (m *Source) Principal(ctx context.Context, ref loanref.Ref) (int64, error) {
	if m.PrincipalFn != nil {
		return m.PrincipalFn(ctx, ref)
	}
	return 0, domain.ErrNotFound
}

func (m *Source) IsRepaymentComplete(ctx context.Context, ref loanref.Ref) (bool, error) {
	if m.IsRepaymentCompleteFn != nil {
		return m.IsRepaymentCompleteFn(ctx, ref)
	}
	return false, nil
}
