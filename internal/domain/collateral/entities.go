package collateral

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"lakay-collateral/internal/domain/loanref"
)

type Statut string

const (
	StatutPartiel   Statut = "partiel"
	StatutComplet   Statut = "complet"
	StatutRembourse Statut = "rembourse"
)

var (
	ErrNotFound = errors.New("collateral record not found")

	// ErrRecordClosed: mutation attempted on a rembourse (terminal) record.
	ErrRecordClosed = errors.New("collateral record is closed")

	// ErrDuplicateLoanRef: a non-terminal record already pledges this loan.
	ErrDuplicateLoanRef = errors.New("loan already has an active collateral record")

	// ErrAlreadyComplete: top-up attempted on a fully funded record.
	ErrAlreadyComplete = errors.New("collateral already complete")

	// ErrLoanNotRepaid: release attempted before the loan reported repayment
	// complete.
	ErrLoanNotRepaid = errors.New("loan repayment not confirmed")

	ErrOverRelease = errors.New("release exceeds deposited collateral")
)

// Record tracks one pledge: how much savings must be set aside to back one
// loan, how much actually is, and when it came back. Terminal records are
// kept forever; they are the history the reporting screens read.
type Record struct {
	ID          uint64  `gorm:"primaryKey;column:id" json:"-"`
	RecordID    string  `gorm:"size:32;column:record_id;uniqueIndex:ux_collateral_record_id" json:"record_id"`
	MemberID    string  `gorm:"size:32;column:member_id;index:idx_collateral_member" json:"member_id"`
	LoanID      *string `gorm:"size:32;column:loan_id;index:idx_collateral_loan" json:"loan_id,omitempty"`
	GroupLoanID *string `gorm:"size:32;column:group_loan_id;index:idx_collateral_group_loan" json:"group_loan_id,omitempty"`

	MontantRequis int64  `gorm:"column:montant_requis" json:"montant_requis"`
	MontantDepose int64  `gorm:"column:montant_depose" json:"montant_depose"`
	Statut        Statut `gorm:"type:enum('partiel','complet','rembourse');default:'partiel';column:statut" json:"statut"`

	DateDepot         *time.Time `gorm:"column:date_depot" json:"date_depot,omitempty"`
	DateRemboursement *time.Time `gorm:"column:date_remboursement" json:"date_remboursement,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Record) TableName() string { return "collateral_records" }

func (r *Record) LoanRef() (loanref.Ref, error) {
	ref, ok, err := loanref.FromColumns(r.LoanID, r.GroupLoanID)
	if err != nil {
		return loanref.Ref{}, err
	}
	if !ok {
		return loanref.Ref{}, loanref.ErrInvalidRef
	}
	return ref, nil
}

// MontantRestant is the gap still to fund. Derived, never stored.
func (r *Record) MontantRestant() int64 {
	rest := r.MontantRequis - r.MontantDepose
	if rest < 0 {
		return 0
	}
	return rest
}

func (r *Record) Terminal() bool { return r.Statut == StatutRembourse }

// ApplyDeposit credits amount against the requirement. The caller must have
// already blocked the matching funds on the ledger. Deposits are clamped at
// montant_requis; the excess comes back as overflow for the caller to leave
// unblocked. First funds stamp date_depot.
func (r *Record) ApplyDeposit(amount int64, now time.Time) (overflow int64, err error) {
	if r.Terminal() {
		return 0, ErrRecordClosed
	}
	if amount < 0 {
		return 0, ErrOverRelease
	}
	if r.DateDepot == nil && amount > 0 {
		at := now.UTC()
		r.DateDepot = &at
	}
	room := r.MontantRestant()
	applied := amount
	if applied > room {
		applied = room
	}
	r.MontantDepose += applied
	r.recomputeStatut()
	return amount - applied, nil
}

// ApplyRelease debits amount (the caller has already unblocked it on the
// ledger). When the balance reaches zero and repayment is confirmed, the
// record closes: statut rembourse, date_remboursement stamped. An explicit
// partial release is the only way back from complet to partiel.
func (r *Record) ApplyRelease(amount int64, repaid bool, now time.Time) error {
	if r.Terminal() {
		return ErrRecordClosed
	}
	if amount < 0 || amount > r.MontantDepose {
		return ErrOverRelease
	}
	r.MontantDepose -= amount
	if r.MontantDepose == 0 && repaid {
		r.Statut = StatutRembourse
		at := now.UTC()
		r.DateRemboursement = &at
		return nil
	}
	r.recomputeStatut()
	return nil
}

func (r *Record) recomputeStatut() {
	if r.MontantDepose >= r.MontantRequis {
		r.Statut = StatutComplet
	} else {
		r.Statut = StatutPartiel
	}
}
