package ledger

import (
	"context"
	"errors"

	"lakay-collateral/internal/domain/member"
	"lakay-collateral/internal/domain/savings"
	"lakay-collateral/internal/domain/uow"
	"lakay-collateral/pkg/id"
)

// Usecase covers the savings side the back-office calls directly: member
// registration, deposits, withdrawals, balance. Blocking and release belong
// to the escrow reconciler, never here.
type Usecase struct {
	uow     uow.UnitOfWork
	members member.Repository
	savings savings.Repository
}

func NewUsecase(tx uow.UnitOfWork, members member.Repository, txns savings.Repository) *Usecase {
	return &Usecase{uow: tx, members: members, savings: txns}
}

func (u *Usecase) RegisterMember(ctx context.Context, in RegisterMemberInput) (*MemberDTO, error) {
	if in.Name == "" {
		return nil, errors.New("invalid input")
	}
	m := &member.Member{MemberID: id.NewID32(), Name: in.Name}
	if err := u.members.Create(ctx, m); err != nil {
		return nil, err
	}
	return &MemberDTO{MemberID: m.MemberID, Name: m.Name, CreatedAt: m.CreatedAt}, nil
}

func (u *Usecase) Deposit(ctx context.Context, memberID string, amount int64) (*TransactionDTO, error) {
	var dto *TransactionDTO
	err := u.uow.WithinMemberTx(ctx, memberID, func(r uow.Repos, m *member.Member) error {
		t, err := savings.NewLedger(r.Savings).Deposit(ctx, m.MemberID, amount)
		if err != nil {
			return err
		}
		dto = toTransactionDTO(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Withdraw(ctx context.Context, memberID string, amount int64) (*TransactionDTO, error) {
	var dto *TransactionDTO
	err := u.uow.WithinMemberTx(ctx, memberID, func(r uow.Repos, m *member.Member) error {
		t, err := savings.NewLedger(r.Savings).Withdraw(ctx, m.MemberID, amount)
		if err != nil {
			return err
		}
		dto = toTransactionDTO(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) AvailableBalance(ctx context.Context, memberID string) (*BalanceDTO, error) {
	if _, err := u.members.GetByMemberID(ctx, memberID); err != nil {
		return nil, err
	}
	avail, err := u.savings.SumUnblocked(ctx, memberID)
	if err != nil {
		return nil, err
	}
	total, err := u.savings.SumAll(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return &BalanceDTO{
		MemberID:  memberID,
		Available: avail,
		Blocked:   total - avail,
		Total:     total,
	}, nil
}

func (u *Usecase) ListTransactions(ctx context.Context, memberID string) ([]TransactionDTO, error) {
	rows, err := u.savings.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	out := make([]TransactionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toTransactionDTO(&rows[i]))
	}
	return out, nil
}

func toTransactionDTO(t *savings.Transaction) *TransactionDTO {
	return &TransactionDTO{
		TxID:      t.TxID,
		MemberID:  t.MemberID,
		Amount:    t.Amount,
		Blocked:   t.Blocked,
		LoanID:    t.LoanID,
		GroupID:   t.GroupLoanID,
		CreatedAt: t.CreatedAt,
	}
}
