package mysql

import (
	"context"

	"gorm.io/gorm"

	"lakay-collateral/internal/domain/loanref"
	savingsDomain "lakay-collateral/internal/domain/savings"
)

type SavingsRepository struct{ db *gorm.DB }

func NewSavingsRepository(db *gorm.DB) *SavingsRepository { return &SavingsRepository{db: db} }

// Tx runs fn in a db transaction, passing a repo bound to the tx
func (r *SavingsRepository) Tx(ctx context.Context, fn func(repo savingsDomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SavingsRepository{db: tx})
	})
}

func (r *SavingsRepository) Create(ctx context.Context, t *savingsDomain.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *SavingsRepository) Save(ctx context.Context, t *savingsDomain.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *SavingsRepository) ListUnblockedByMember(ctx context.Context, memberID string) ([]savingsDomain.Transaction, error) {
	var out []savingsDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("member_id = ? AND blocked = ?", memberID, false).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *SavingsRepository) ListBlockedByLoan(ctx context.Context, memberID string, ref loanref.Ref) ([]savingsDomain.Transaction, error) {
	var out []savingsDomain.Transaction
	res := r.refScope(ctx, memberID, ref).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *SavingsRepository) ListByMember(ctx context.Context, memberID string) ([]savingsDomain.Transaction, error) {
	var out []savingsDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *SavingsRepository) SumUnblocked(ctx context.Context, memberID string) (int64, error) {
	var sum int64
	res := r.db.WithContext(ctx).
		Model(&savingsDomain.Transaction{}).
		Where("member_id = ? AND blocked = ?", memberID, false).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum)
	return sum, res.Error
}

func (r *SavingsRepository) SumBlockedByLoan(ctx context.Context, memberID string, ref loanref.Ref) (int64, error) {
	var sum int64
	res := r.refScope(ctx, memberID, ref).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum)
	return sum, res.Error
}

func (r *SavingsRepository) SumAll(ctx context.Context, memberID string) (int64, error) {
	var sum int64
	res := r.db.WithContext(ctx).
		Model(&savingsDomain.Transaction{}).
		Where("member_id = ?", memberID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum)
	return sum, res.Error
}

func (r *SavingsRepository) refScope(ctx context.Context, memberID string, ref loanref.Ref) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&savingsDomain.Transaction{}).
		Where("member_id = ? AND blocked = ?", memberID, true)
	if ref.Kind == loanref.KindGroup {
		return q.Where("group_loan_id = ?", ref.ID)
	}
	return q.Where("loan_id = ?", ref.ID)
}
