package loan

import (
	"context"

	"lakay-collateral/internal/domain/loanref"
)

// Source is the read-only view of the external loan module the reconciler
// depends on: principal for policy callers, repayment completion for release.
type Source interface {
	Principal(ctx context.Context, ref loanref.Ref) (int64, error)
	IsRepaymentComplete(ctx context.Context, ref loanref.Ref) (bool, error)
}
