package escrow

import (
	"context"
	"errors"
	"log"
	"time"

	"lakay-collateral/internal/domain/collateral"
	"lakay-collateral/internal/domain/loan"
	"lakay-collateral/internal/domain/loanref"
	"lakay-collateral/internal/domain/member"
	"lakay-collateral/internal/domain/savings"
	"lakay-collateral/internal/domain/uow"
	"lakay-collateral/pkg/id"
)

// Usecase is the escrow reconciler: the only component allowed to touch both
// the savings ledger and the collateral records. Every mutation runs inside
// one member-locked transaction so the two sides commit or roll back
// together and the conservation invariant survives.
type Usecase struct {
	uow         uow.UnitOfWork
	collaterals collateral.Repository
	loans       loan.Source
	// requiredRatio is the policy input: fraction of the loan principal to
	// demand when the caller does not fix the amount itself. Configuration,
	// never computed here.
	requiredRatio float64
}

func NewUsecase(tx uow.UnitOfWork, records collateral.Repository, loans loan.Source, requiredRatio float64) *Usecase {
	if requiredRatio <= 0 {
		requiredRatio = 1.0
	}
	return &Usecase{uow: tx, collaterals: records, loans: loans, requiredRatio: requiredRatio}
}

var errInvalidInput = errors.New("invalid input")

// RequireCollateral opens the pledge for a loan: blocks as much of the
// required amount as the member's available balance covers and creates the
// record. Partial funding is the normal outcome; the shortfall goes back to
// the caller, it is not an error. The required amount itself is policy,
// supplied by the caller.
func (u *Usecase) RequireCollateral(ctx context.Context, in RequireCollateralInput) (*CollateralDTO, error) {
	if in.MemberID == "" || in.RequiredAmount < 0 {
		return nil, errInvalidInput
	}
	if err := in.Ref.Validate(); err != nil {
		return nil, err
	}
	if in.RequiredAmount == 0 {
		// caller left the amount to policy: ratio of the loan principal
		principal, err := u.loans.Principal(ctx, in.Ref)
		if err != nil {
			return nil, err
		}
		in.RequiredAmount = int64(float64(principal) * u.requiredRatio)
		if in.RequiredAmount <= 0 {
			return nil, errInvalidInput
		}
	}

	var dto *CollateralDTO
	err := u.uow.WithinMemberTx(ctx, in.MemberID, func(r uow.Repos, m *member.Member) error {
		_, err := r.Collaterals.GetActiveByLoanRef(ctx, in.Ref)
		switch {
		case err == nil:
			return collateral.ErrDuplicateLoanRef
		case !errors.Is(err, collateral.ErrNotFound):
			return err
		}

		res, err := savings.NewLedger(r.Savings).BlockAmount(ctx, m.MemberID, in.RequiredAmount, in.Ref)
		if err != nil {
			return err
		}

		loanID, groupLoanID := in.Ref.Columns()
		rec := &collateral.Record{
			RecordID:      id.NewID32(),
			MemberID:      m.MemberID,
			LoanID:        loanID,
			GroupLoanID:   groupLoanID,
			MontantRequis: in.RequiredAmount,
			Statut:        collateral.StatutPartiel,
		}
		if _, err := rec.ApplyDeposit(res.Blocked, time.Now()); err != nil {
			return err
		}
		if err := r.Collaterals.Create(ctx, rec); err != nil {
			return err
		}
		dto = toDTO(rec, res.Shortfall)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// TopUpCollateral blocks more savings against a partiel record, never past
// montant_restant. additionalAmount = 0 is a guaranteed no-op.
func (u *Usecase) TopUpCollateral(ctx context.Context, ref loanref.Ref, additionalAmount int64) (*CollateralDTO, error) {
	if additionalAmount < 0 {
		return nil, errInvalidInput
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	// look up the owner first; the real work re-reads under the member lock
	probe, err := u.collaterals.GetActiveByLoanRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	var dto *CollateralDTO
	err = u.uow.WithinMemberTx(ctx, probe.MemberID, func(r uow.Repos, m *member.Member) error {
		rec, err := r.Collaterals.GetActiveByLoanRef(ctx, ref)
		if err != nil {
			return err
		}
		if rec.Statut == collateral.StatutComplet {
			return collateral.ErrAlreadyComplete
		}
		if additionalAmount == 0 {
			dto = toDTO(rec, 0)
			return nil
		}

		want := additionalAmount
		if rest := rec.MontantRestant(); want > rest {
			want = rest
		}
		res, err := savings.NewLedger(r.Savings).BlockAmount(ctx, m.MemberID, want, ref)
		if err != nil {
			return err
		}
		if _, err := rec.ApplyDeposit(res.Blocked, time.Now()); err != nil {
			return err
		}
		if err := r.Collaterals.Save(ctx, rec); err != nil {
			return err
		}
		dto = toDTO(rec, res.Shortfall)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ReleaseCollateral returns the full pledge to the member's available
// balance and closes the record. Only valid once the loan module confirms
// repayment; releasing early defeats the purpose of the pledge.
func (u *Usecase) ReleaseCollateral(ctx context.Context, ref loanref.Ref) (*CollateralDTO, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	repaid, err := u.loans.IsRepaymentComplete(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !repaid {
		return nil, collateral.ErrLoanNotRepaid
	}
	return u.release(ctx, ref)
}

// ForceRelease is the administrative escape hatch (default write-off, data
// repair). Same effect as ReleaseCollateral minus the repayment guard; the
// reason is mandatory and logged so audits can tell the two apart.
func (u *Usecase) ForceRelease(ctx context.Context, ref loanref.Ref, reason string) (*CollateralDTO, error) {
	if reason == "" {
		return nil, errInvalidInput
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	log.Printf("escrow: force release %s reason=%q", ref, reason)
	return u.release(ctx, ref)
}

func (u *Usecase) release(ctx context.Context, ref loanref.Ref) (*CollateralDTO, error) {
	probe, err := u.collaterals.GetByLoanRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if probe.Terminal() {
		return nil, collateral.ErrRecordClosed
	}

	var dto *CollateralDTO
	err = u.uow.WithinMemberTx(ctx, probe.MemberID, func(r uow.Repos, m *member.Member) error {
		rec, err := r.Collaterals.GetActiveByLoanRef(ctx, ref)
		if err != nil {
			return err
		}
		amount := rec.MontantDepose
		if amount > 0 {
			if err := savings.NewLedger(r.Savings).UnblockAmount(ctx, m.MemberID, ref, amount); err != nil {
				return err
			}
		}
		if err := rec.ApplyRelease(amount, true, time.Now()); err != nil {
			return err
		}
		if err := r.Collaterals.Save(ctx, rec); err != nil {
			return err
		}
		dto = toDTO(rec, 0)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// PartialRelease lowers the pledge without closing it, the renegotiation
// path. A complet record drops back to partiel when the balance falls below
// montant_requis.
func (u *Usecase) PartialRelease(ctx context.Context, ref loanref.Ref, amount int64, reason string) (*CollateralDTO, error) {
	if amount <= 0 || reason == "" {
		return nil, errInvalidInput
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	probe, err := u.collaterals.GetActiveByLoanRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	log.Printf("escrow: partial release %s amount=%d reason=%q", ref, amount, reason)

	var dto *CollateralDTO
	err = u.uow.WithinMemberTx(ctx, probe.MemberID, func(r uow.Repos, m *member.Member) error {
		rec, err := r.Collaterals.GetActiveByLoanRef(ctx, ref)
		if err != nil {
			return err
		}
		if amount > rec.MontantDepose {
			return collateral.ErrOverRelease
		}
		if err := savings.NewLedger(r.Savings).UnblockAmount(ctx, m.MemberID, ref, amount); err != nil {
			return err
		}
		if err := rec.ApplyRelease(amount, false, time.Now()); err != nil {
			return err
		}
		if err := r.Collaterals.Save(ctx, rec); err != nil {
			return err
		}
		dto = toDTO(rec, 0)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// GetCollateralRecord returns the latest record for ref, history included.
func (u *Usecase) GetCollateralRecord(ctx context.Context, ref loanref.Ref) (*CollateralDTO, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	rec, err := u.collaterals.GetByLoanRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	return toDTO(rec, 0), nil
}

func (u *Usecase) ListCollateralRecords(ctx context.Context, f collateral.Filter) ([]CollateralDTO, error) {
	recs, err := u.collaterals.ListRecords(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]CollateralDTO, 0, len(recs))
	for i := range recs {
		out = append(out, *toDTO(&recs[i], 0))
	}
	return out, nil
}
