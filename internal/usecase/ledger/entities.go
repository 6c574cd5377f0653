package ledger

import "time"

type RegisterMemberInput struct {
	Name string `json:"name"`
}

type MemberDTO struct {
	MemberID  string    `json:"member_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type TransactionDTO struct {
	TxID      string    `json:"tx_id"`
	MemberID  string    `json:"member_id"`
	Amount    int64     `json:"amount"`
	Blocked   bool      `json:"blocked"`
	LoanID    *string   `json:"loan_id,omitempty"`
	GroupID   *string   `json:"group_loan_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type BalanceDTO struct {
	MemberID  string `json:"member_id"`
	Available int64  `json:"available"`
	Blocked   int64  `json:"blocked"`
	Total     int64  `json:"total"`
}
