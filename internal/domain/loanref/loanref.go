package loanref

import (
	"errors"
	"fmt"
)

// Kind tags which loan table a reference points at.
type Kind string

const (
	KindIndividual Kind = "individual"
	KindGroup      Kind = "group"
)

var ErrInvalidRef = errors.New("loan reference must carry exactly one loan id")

// Ref identifies the loan a pledge or a blocked transaction belongs to.
// Exactly one loan id, distinguished by Kind: never both, never neither.
type Ref struct {
	Kind Kind
	ID   string // 32-char lowercase hex public id
}

func Individual(id string) Ref { return Ref{Kind: KindIndividual, ID: id} }
func Group(id string) Ref      { return Ref{Kind: KindGroup, ID: id} }

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindIndividual, KindGroup:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown loan kind %q", s)
}

func (r Ref) Validate() error {
	if (r.Kind != KindIndividual && r.Kind != KindGroup) || r.ID == "" {
		return ErrInvalidRef
	}
	return nil
}

func (r Ref) String() string { return string(r.Kind) + ":" + r.ID }

// Columns maps the ref onto the two nullable FK columns used by
// savings_transactions and collateral_records.
func (r Ref) Columns() (loanID, groupLoanID *string) {
	switch r.Kind {
	case KindGroup:
		return nil, &r.ID
	default:
		return &r.ID, nil
	}
}

// FromColumns rebuilds a Ref from the nullable column pair. Returns ok=false
// when both are NULL (row not blocked / not referenced).
func FromColumns(loanID, groupLoanID *string) (Ref, bool, error) {
	switch {
	case loanID != nil && groupLoanID != nil:
		return Ref{}, false, ErrInvalidRef
	case loanID != nil:
		return Individual(*loanID), true, nil
	case groupLoanID != nil:
		return Group(*groupLoanID), true, nil
	}
	return Ref{}, false, nil
}
