package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	loanDomain "lakay-collateral/internal/domain/loan"
	"lakay-collateral/internal/domain/loanref"
)

// LoanSource reads the externally-owned loan tables. Satisfies loan.Source;
// strictly read-only from the engine's point of view.
type LoanSource struct{ db *gorm.DB }

func NewLoanSource(db *gorm.DB) *LoanSource { return &LoanSource{db: db} }

func (r *LoanSource) Principal(ctx context.Context, ref loanref.Ref) (int64, error) {
	if ref.Kind == loanref.KindGroup {
		var gl loanDomain.GroupLoan
		if err := r.first(ctx, "group_loan_id", ref.ID, &gl); err != nil {
			return 0, err
		}
		return gl.Principal, nil
	}
	var l loanDomain.Loan
	if err := r.first(ctx, "loan_id", ref.ID, &l); err != nil {
		return 0, err
	}
	return l.Principal, nil
}

func (r *LoanSource) IsRepaymentComplete(ctx context.Context, ref loanref.Ref) (bool, error) {
	if ref.Kind == loanref.KindGroup {
		var gl loanDomain.GroupLoan
		if err := r.first(ctx, "group_loan_id", ref.ID, &gl); err != nil {
			return false, err
		}
		return gl.Status == loanDomain.StatusRepaid, nil
	}
	var l loanDomain.Loan
	if err := r.first(ctx, "loan_id", ref.ID, &l); err != nil {
		return false, err
	}
	return l.Status == loanDomain.StatusRepaid, nil
}

func (r *LoanSource) first(ctx context.Context, col, id string, dest any) error {
	res := r.db.WithContext(ctx).Where(col+" = ?", id).First(dest)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return loanDomain.ErrNotFound
	}
	return res.Error
}
