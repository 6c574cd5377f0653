package collateral

import (
	"context"

	"lakay-collateral/internal/domain/loanref"
)

// Filter narrows ListRecords; zero values mean "any".
type Filter struct {
	MemberID string
	Statut   Statut
}

type Repository interface {
	Create(ctx context.Context, r *Record) error
	Save(ctx context.Context, r *Record) error

	// GetActiveByLoanRef returns the one non-terminal record for ref, or
	// ErrNotFound. At most one may exist at a time.
	GetActiveByLoanRef(ctx context.Context, ref loanref.Ref) (*Record, error)
	// GetByLoanRef returns the most recent record for ref regardless of
	// statut (history included).
	GetByLoanRef(ctx context.Context, ref loanref.Ref) (*Record, error)

	ListRecords(ctx context.Context, f Filter) ([]Record, error)
}
