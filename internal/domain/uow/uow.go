package uow

import (
	"context"

	"lakay-collateral/internal/domain/collateral"
	"lakay-collateral/internal/domain/member"
	"lakay-collateral/internal/domain/savings"
)

type Repos struct {
	Members     member.Repository
	Savings     savings.Repository
	Collaterals collateral.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the member row first, then pass it in. This is the
	// per-member exclusivity scope: all ledger/collateral mutations for one
	// reconciler call run inside it and commit or roll back together.
	WithinMemberTx(ctx context.Context, memberID string, fn func(r Repos, m *member.Member) error) error
}
