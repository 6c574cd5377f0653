package savings

import (
	"time"

	"gorm.io/gorm"

	"lakay-collateral/internal/domain/loanref"
)

// Transaction is one savings movement. Amounts are signed centimes:
// positive = deposit, negative = withdrawal. Rows are never deleted;
// blocking flips the blocked flag (splitting a row when only part of it
// is needed) so the full audit trail survives.
type Transaction struct {
	ID          uint64         `gorm:"primaryKey;column:id" json:"-"`
	TxID        string         `gorm:"size:32;column:tx_id;uniqueIndex:ux_savings_tx_id" json:"tx_id"`
	MemberID    string         `gorm:"size:32;column:member_id;index:idx_savings_member" json:"member_id"`
	Amount      int64          `gorm:"column:amount" json:"amount"`
	Blocked     bool           `gorm:"column:blocked;index:idx_savings_blocked" json:"blocked"`
	LoanID      *string        `gorm:"size:32;column:loan_id;index:idx_savings_loan" json:"loan_id,omitempty"`
	GroupLoanID *string        `gorm:"size:32;column:group_loan_id;index:idx_savings_group_loan" json:"group_loan_id,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Transaction) TableName() string { return "savings_transactions" }

// BlockedFor returns the loan reference this row is pledged to, if any.
func (t *Transaction) BlockedFor() (loanref.Ref, bool, error) {
	if !t.Blocked {
		return loanref.Ref{}, false, nil
	}
	return loanref.FromColumns(t.LoanID, t.GroupLoanID)
}

// Validate enforces the row-level invariants: a blocked row carries exactly
// one loan reference and a positive amount; an unblocked row carries none.
func (t *Transaction) Validate() error {
	if t.Blocked {
		if (t.LoanID == nil) == (t.GroupLoanID == nil) {
			return loanref.ErrInvalidRef
		}
		if t.Amount <= 0 {
			return ErrInvalidAmount
		}
		return nil
	}
	if t.LoanID != nil || t.GroupLoanID != nil {
		return loanref.ErrInvalidRef
	}
	return nil
}
