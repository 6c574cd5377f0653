package collateralmock

import (
	"context"
	"errors"
	"testing"

	domain "lakay-collateral/internal/domain/collateral"
	"lakay-collateral/internal/domain/loanref"
)

var testRef = loanref.Individual("00112233445566778899aabbccddeeff")

func TestGetActiveByLoanRef(t *testing.T) {
	ctx := context.Background()
	want := &domain.Record{RecordID: "r1", Statut: domain.StatutPartiel}

	m := &Repo{
		GetActiveByLoanRefFn: func(_ context.Context, ref loanref.Ref) (*domain.Record, error) {
			if ref != testRef {
				t.Fatalf("ref not forwarded: %v", ref)
			}
			return want, nil
		},
	}
	got, err := m.GetActiveByLoanRef(ctx, testRef)
	if err != nil || got != want {
		t.Fatalf("got %v %v", got, err)
	}

	// default: lookups miss
	if _, err := (&Repo{}).GetActiveByLoanRef(ctx, testRef); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("default: %v", err)
	}
	if _, err := (&Repo{}).GetByLoanRef(ctx, testRef); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("default get: %v", err)
	}
}

func TestCreateAndSave_Defaults(t *testing.T) {
	ctx := context.Background()
	rec := &domain.Record{RecordID: "r2"}
	m := &Repo{}
	if err := m.Create(ctx, rec); err != nil {
		t.Fatalf("default Create: %v", err)
	}
	if err := m.Save(ctx, rec); err != nil {
		t.Fatalf("default Save: %v", err)
	}
	if rows, err := m.ListRecords(ctx, domain.Filter{}); rows != nil || err != nil {
		t.Fatalf("default ListRecords: %v %v", rows, err)
	}
}

func TestSave_PropagatesError(t *testing.T) {
	wantErr := errors.New("save-fail")
	m := &Repo{SaveFn: func(context.Context, *domain.Record) error { return wantErr }}
	if err := m.Save(context.Background(), &domain.Record{}); !errors.Is(err, wantErr) {
		t.Fatalf("got %v", err)
	}
}
