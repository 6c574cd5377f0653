package savings

import (
	"context"

	"lakay-collateral/internal/domain/loanref"
)

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	Save(ctx context.Context, t *Transaction) error

	// ListUnblockedByMember returns unblocked rows oldest first (FIFO order
	// for blocking).
	ListUnblockedByMember(ctx context.Context, memberID string) ([]Transaction, error)
	// ListBlockedByLoan returns the member's rows blocked for ref, oldest first.
	ListBlockedByLoan(ctx context.Context, memberID string, ref loanref.Ref) ([]Transaction, error)

	SumUnblocked(ctx context.Context, memberID string) (int64, error)
	SumBlockedByLoan(ctx context.Context, memberID string, ref loanref.Ref) (int64, error)
	SumAll(ctx context.Context, memberID string) (int64, error)

	ListByMember(ctx context.Context, memberID string) ([]Transaction, error)
}
