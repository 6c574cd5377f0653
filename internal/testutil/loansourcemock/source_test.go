package loansourcemock

import (
	"context"
	"errors"
	"testing"

	domain "lakay-collateral/internal/domain/loan"
	"lakay-collateral/internal/domain/loanref"
)

var testRef = loanref.Group("ffeeddccbbaa99887766554433221100")

func TestPrincipal(t *testing.T) {
	m := &Source{
		PrincipalFn: func(_ context.Context, ref loanref.Ref) (int64, error) {
			if ref != testRef {
				t.Fatalf("ref not forwarded: %v", ref)
			}
			return 250000, nil
		},
	}
	n, err := m.Principal(context.Background(), testRef)
	if err != nil || n != 250000 {
		t.Fatalf("got %d %v", n, err)
	}

	// default: unknown loan
	if _, err := (&Source{}).Principal(context.Background(), testRef); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("default: %v", err)
	}
}

func TestIsRepaymentComplete(t *testing.T) {
	m := &Source{
		IsRepaymentCompleteFn: func(context.Context, loanref.Ref) (bool, error) { return true, nil },
	}
	ok, err := m.IsRepaymentComplete(context.Background(), testRef)
	if err != nil || !ok {
		t.Fatalf("got %v %v", ok, err)
	}

	// default: not repaid yet
	ok, err = (&Source{}).IsRepaymentComplete(context.Background(), testRef)
	if err != nil || ok {
		t.Fatalf("default: %v %v", ok, err)
	}
}
