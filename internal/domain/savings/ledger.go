package savings

import (
	"context"

	"lakay-collateral/internal/domain/loanref"
	"lakay-collateral/pkg/id"
)

// Ledger is the authoritative view of a member's savings: available balance,
// blocked set, and the block/unblock mechanics. It holds no state of its own;
// bind it to a tx-scoped Repository inside a unit of work so every mutation
// happens under the member lock.
type Ledger struct{ repo Repository }

func NewLedger(r Repository) *Ledger { return &Ledger{repo: r} }

// BlockResult reports what a BlockAmount call actually did. Shortfall > 0 is
// the expected partial-funding outcome, not an error.
type BlockResult struct {
	TxIDs     []string
	Blocked   int64
	Shortfall int64
}

// AvailableBalance is the sum of all unblocked rows. Never negative:
// withdrawals are validated against it and blocking is capped by it.
func (l *Ledger) AvailableBalance(ctx context.Context, memberID string) (int64, error) {
	return l.repo.SumUnblocked(ctx, memberID)
}

func (l *Ledger) Deposit(ctx context.Context, memberID string, amount int64) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	t := &Transaction{TxID: id.NewID32(), MemberID: memberID, Amount: amount}
	if err := l.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Withdraw records a negative row. Hard precondition: the withdrawal must not
// drive the available balance negative, whatever the UI checked beforehand.
func (l *Ledger) Withdraw(ctx context.Context, memberID string, amount int64) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	avail, err := l.repo.SumUnblocked(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if amount > avail {
		return nil, ErrInsufficientFunds
	}
	t := &Transaction{TxID: id.NewID32(), MemberID: memberID, Amount: -amount}
	if err := l.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// BlockAmount pledges up to amount of the member's available balance to ref,
// oldest deposits first. A deposit row only partially needed is split: the
// blocked part becomes a new row of the exact amount, the residual stays
// unblocked, so the sum over all rows is unchanged. Insufficient funds is not
// an error here; the uncovered remainder comes back as Shortfall.
func (l *Ledger) BlockAmount(ctx context.Context, memberID string, amount int64, ref loanref.Ref) (*BlockResult, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	avail, err := l.repo.SumUnblocked(ctx, memberID)
	if err != nil {
		return nil, err
	}
	// Available already nets out withdrawals, so the block target is capped
	// here even though only positive rows get flipped below.
	target := amount
	if target > avail {
		target = avail
	}

	res := &BlockResult{Shortfall: amount - target}
	if target == 0 {
		return res, nil
	}

	rows, err := l.repo.ListUnblockedByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	loanID, groupLoanID := ref.Columns()

	remaining := target
	for i := range rows {
		if remaining == 0 {
			break
		}
		row := &rows[i]
		if row.Amount <= 0 {
			continue // withdrawals never get blocked
		}
		if row.Amount <= remaining {
			row.Blocked = true
			row.LoanID = loanID
			row.GroupLoanID = groupLoanID
			if err := l.repo.Save(ctx, row); err != nil {
				return nil, err
			}
			res.TxIDs = append(res.TxIDs, row.TxID)
			res.Blocked += row.Amount
			remaining -= row.Amount
			continue
		}
		// Split: shrink the unblocked row, create a blocked row of the
		// exact remainder.
		row.Amount -= remaining
		if err := l.repo.Save(ctx, row); err != nil {
			return nil, err
		}
		blocked := &Transaction{
			TxID:        id.NewID32(),
			MemberID:    memberID,
			Amount:      remaining,
			Blocked:     true,
			LoanID:      loanID,
			GroupLoanID: groupLoanID,
		}
		if err := l.repo.Create(ctx, blocked); err != nil {
			return nil, err
		}
		res.TxIDs = append(res.TxIDs, blocked.TxID)
		res.Blocked += remaining
		remaining = 0
	}

	res.Shortfall = amount - res.Blocked
	return res, nil
}

// UnblockAmount returns up to amount of the funds blocked for ref to the
// member's available balance, oldest first. Asking for more than is blocked
// for ref is a reconciler bug and fails with ErrOverRelease.
func (l *Ledger) UnblockAmount(ctx context.Context, memberID string, ref loanref.Ref, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	if err := ref.Validate(); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}

	rows, err := l.repo.ListBlockedByLoan(ctx, memberID, ref)
	if err != nil {
		return err
	}
	var total int64
	for i := range rows {
		total += rows[i].Amount
	}
	if amount > total {
		return ErrOverRelease
	}

	remaining := amount
	for i := range rows {
		if remaining == 0 {
			break
		}
		row := &rows[i]
		if row.Amount <= remaining {
			remaining -= row.Amount
			row.Blocked = false
			row.LoanID = nil
			row.GroupLoanID = nil
			if err := l.repo.Save(ctx, row); err != nil {
				return err
			}
			continue
		}
		// Partial: shrink the blocked row, give the member back an
		// unblocked row of the released part.
		row.Amount -= remaining
		if err := l.repo.Save(ctx, row); err != nil {
			return err
		}
		released := &Transaction{TxID: id.NewID32(), MemberID: memberID, Amount: remaining}
		if err := l.repo.Create(ctx, released); err != nil {
			return err
		}
		remaining = 0
	}
	return nil
}

// BlockedFor sums what is currently blocked for ref.
func (l *Ledger) BlockedFor(ctx context.Context, memberID string, ref loanref.Ref) (int64, error) {
	return l.repo.SumBlockedByLoan(ctx, memberID, ref)
}
