package loanref

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	for _, s := range []string{"individual", "group"} {
		k, err := ParseKind(s)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", s, err)
		}
		if string(k) != s {
			t.Errorf("ParseKind(%q) = %q", s, k)
		}
	}
	if _, err := ParseKind("joint"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestRefValidate(t *testing.T) {
	if err := Individual("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa").Validate(); err != nil {
		t.Fatalf("valid individual ref rejected: %v", err)
	}
	if err := Group("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb").Validate(); err != nil {
		t.Fatalf("valid group ref rejected: %v", err)
	}
	if err := (Ref{}).Validate(); !errors.Is(err, ErrInvalidRef) {
		t.Fatalf("empty ref: got %v, want ErrInvalidRef", err)
	}
	if err := (Ref{Kind: "other", ID: "x"}).Validate(); !errors.Is(err, ErrInvalidRef) {
		t.Fatalf("bad kind: got %v, want ErrInvalidRef", err)
	}
}

func TestColumnsRoundTrip(t *testing.T) {
	ind := Individual("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	loanID, groupID := ind.Columns()
	if loanID == nil || groupID != nil {
		t.Fatalf("individual columns: loan=%v group=%v", loanID, groupID)
	}
	back, ok, err := FromColumns(loanID, groupID)
	if err != nil || !ok || back != ind {
		t.Fatalf("round trip individual: %v %v %v", back, ok, err)
	}

	grp := Group("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	loanID, groupID = grp.Columns()
	if loanID != nil || groupID == nil {
		t.Fatalf("group columns: loan=%v group=%v", loanID, groupID)
	}
	back, ok, err = FromColumns(loanID, groupID)
	if err != nil || !ok || back != grp {
		t.Fatalf("round trip group: %v %v %v", back, ok, err)
	}
}

func TestFromColumns_BothSetRejected(t *testing.T) {
	a, b := "a", "b"
	if _, _, err := FromColumns(&a, &b); !errors.Is(err, ErrInvalidRef) {
		t.Fatalf("both set: got %v, want ErrInvalidRef", err)
	}
	// both nil: not referenced, not an error
	_, ok, err := FromColumns(nil, nil)
	if err != nil || ok {
		t.Fatalf("both nil: ok=%v err=%v", ok, err)
	}
}
