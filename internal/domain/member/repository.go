package member

import "context"

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByMemberID(ctx context.Context, memberID string) (*Member, error)
	// GetByMemberIDForUpdate locks the member row for the duration of the
	// surrounding transaction (SELECT ... FOR UPDATE).
	GetByMemberIDForUpdate(ctx context.Context, memberID string) (*Member, error)
}
