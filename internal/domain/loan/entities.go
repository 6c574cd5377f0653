package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// The loan module proper (disbursement, schedules, interest) lives outside
// this engine. These rows exist so the reconciler can read the two things it
// is allowed to read: the principal and the repayment-complete signal. The
// engine never writes them.

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusRepaid    Status = "repaid"
	StatusDefaulted Status = "defaulted"
)

var ErrNotFound = errors.New("loan not found")

type Loan struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"-"`
	LoanID    string         `gorm:"size:32;column:loan_id;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	MemberID  string         `gorm:"size:32;column:member_id;index:idx_loans_member" json:"member_id"`
	Principal int64          `gorm:"column:principal" json:"principal"`
	Status    Status         `gorm:"type:enum('pending','active','repaid','defaulted');default:'pending';column:status" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

type GroupLoan struct {
	ID          uint64         `gorm:"primaryKey;column:id" json:"-"`
	GroupLoanID string         `gorm:"size:32;column:group_loan_id;uniqueIndex:ux_group_loans_id" json:"group_loan_id"`
	GroupID     string         `gorm:"size:32;column:group_id;index:idx_group_loans_group" json:"group_id"`
	Principal   int64          `gorm:"column:principal" json:"principal"`
	Status      Status         `gorm:"type:enum('pending','active','repaid','defaulted');default:'pending';column:status" json:"status"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (GroupLoan) TableName() string { return "group_loans" }
