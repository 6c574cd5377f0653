package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"lakay-collateral/internal/domain/member"
	"lakay-collateral/internal/domain/savings"
	"lakay-collateral/internal/domain/uow"
)

// lockTimeout bounds how long a reconciler call may wait on the member row
// before surfacing a retryable Contention error.
const lockTimeout = 5 * time.Second

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Members:     &MemberRepository{db: tx},
		Savings:     &SavingsRepository{db: tx},
		Collaterals: &CollateralRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.repos(tx))
	})
}

func (u *GormUoW) WithinMemberTx(ctx context.Context, memberID string, fn func(r uow.Repos, m *member.Member) error) error {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := u.repos(tx)
		// lock the member row up-front so concurrent pledges against the
		// same savings serialize
		m, err := r.Members.GetByMemberIDForUpdate(ctx, memberID)
		if err != nil {
			return err
		}
		return fn(r, m)
	})
	return asContention(err)
}

// asContention translates lock-wait and deadline failures into the retryable
// domain error; everything else passes through.
func asContention(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return savings.ErrContention
	}
	msg := err.Error()
	if strings.Contains(msg, "Lock wait timeout exceeded") || // mysql 1205
		strings.Contains(msg, "Deadlock found") || // mysql 1213
		strings.Contains(msg, "database is locked") { // sqlite busy
		return savings.ErrContention
	}
	return err
}
