package http

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"lakay-collateral/internal/domain/collateral"
	"lakay-collateral/internal/domain/loan"
	"lakay-collateral/internal/domain/member"
	"lakay-collateral/internal/domain/savings"
)

// ---- helpers ----

// statusFor maps domain errors onto HTTP codes. OverRelease is an internal
// invariant breach, never a user scenario, hence 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, savings.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, collateral.ErrDuplicateLoanRef),
		errors.Is(err, collateral.ErrAlreadyComplete),
		errors.Is(err, collateral.ErrLoanNotRepaid),
		errors.Is(err, collateral.ErrRecordClosed):
		return http.StatusConflict
	case errors.Is(err, savings.ErrContention):
		return http.StatusServiceUnavailable
	case errors.Is(err, collateral.ErrNotFound),
		errors.Is(err, member.ErrNotFound),
		errors.Is(err, loan.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, savings.ErrOverRelease),
		errors.Is(err, collateral.ErrOverRelease):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
