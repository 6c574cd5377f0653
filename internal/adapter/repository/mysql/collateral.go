package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	collateralDomain "lakay-collateral/internal/domain/collateral"
	"lakay-collateral/internal/domain/loanref"
)

type CollateralRepository struct{ db *gorm.DB }

func NewCollateralRepository(db *gorm.DB) *CollateralRepository {
	return &CollateralRepository{db: db}
}

func (r *CollateralRepository) Create(ctx context.Context, rec *collateralDomain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *CollateralRepository) Save(ctx context.Context, rec *collateralDomain.Record) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *CollateralRepository) GetActiveByLoanRef(ctx context.Context, ref loanref.Ref) (*collateralDomain.Record, error) {
	var out collateralDomain.Record
	res := r.refScope(ctx, ref).
		Where("statut <> ?", collateralDomain.StatutRembourse).
		Order("id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, collateralDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *CollateralRepository) GetByLoanRef(ctx context.Context, ref loanref.Ref) (*collateralDomain.Record, error) {
	var out collateralDomain.Record
	res := r.refScope(ctx, ref).
		Order("id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, collateralDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *CollateralRepository) ListRecords(ctx context.Context, f collateralDomain.Filter) ([]collateralDomain.Record, error) {
	q := r.db.WithContext(ctx).Model(&collateralDomain.Record{})
	if f.MemberID != "" {
		q = q.Where("member_id = ?", f.MemberID)
	}
	if f.Statut != "" {
		q = q.Where("statut = ?", f.Statut)
	}
	var out []collateralDomain.Record
	res := q.Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *CollateralRepository) refScope(ctx context.Context, ref loanref.Ref) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&collateralDomain.Record{})
	if ref.Kind == loanref.KindGroup {
		return q.Where("group_loan_id = ?", ref.ID)
	}
	return q.Where("loan_id = ?", ref.ID)
}
