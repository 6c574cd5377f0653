package escrow

import (
	"time"

	"lakay-collateral/internal/domain/collateral"
	"lakay-collateral/internal/domain/loanref"
)

type RequireCollateralInput struct {
	MemberID       string
	Ref            loanref.Ref
	RequiredAmount int64
}

// CollateralDTO is the record as callers see it. Shortfall is only populated
// by the funding operations (require / top-up) so the UI can prompt for an
// additional deposit.
type CollateralDTO struct {
	RecordID          string     `json:"record_id"`
	MemberID          string     `json:"member_id"`
	LoanKind          string     `json:"loan_kind"`
	LoanID            string     `json:"loan_id"`
	MontantRequis     int64      `json:"montant_requis"`
	MontantDepose     int64      `json:"montant_depose"`
	MontantRestant    int64      `json:"montant_restant"`
	Statut            string     `json:"statut"`
	Shortfall         int64      `json:"shortfall,omitempty"`
	DateDepot         *time.Time `json:"date_depot,omitempty"`
	DateRemboursement *time.Time `json:"date_remboursement,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toDTO(rec *collateral.Record, shortfall int64) *CollateralDTO {
	ref, _ := rec.LoanRef()
	return &CollateralDTO{
		RecordID:          rec.RecordID,
		MemberID:          rec.MemberID,
		LoanKind:          string(ref.Kind),
		LoanID:            ref.ID,
		MontantRequis:     rec.MontantRequis,
		MontantDepose:     rec.MontantDepose,
		MontantRestant:    rec.MontantRestant(),
		Statut:            string(rec.Statut),
		Shortfall:         shortfall,
		DateDepot:         rec.DateDepot,
		DateRemboursement: rec.DateRemboursement,
		CreatedAt:         rec.CreatedAt,
	}
}
