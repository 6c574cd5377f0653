package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lakay-collateral/internal/domain/collateral"
	"lakay-collateral/internal/domain/loanref"
	"lakay-collateral/internal/usecase/escrow"
)

type EscrowHandler struct{ uc *escrow.Usecase }

func NewEscrowHandler(uc *escrow.Usecase) *EscrowHandler { return &EscrowHandler{uc: uc} }

type requireCollateralReq struct {
	MemberID string `json:"member_id" validate:"required,hex32"`
	LoanKind string `json:"loan_kind" validate:"required,loankind"`
	LoanID   string `json:"loan_id"   validate:"required,hex32"`
	// Zero means "apply the configured policy ratio to the loan principal".
	RequiredAmount int64 `json:"required_amount" validate:"gte=0"`
}

type topUpReq struct {
	// Zero is a valid no-op probe.
	AdditionalAmount int64 `json:"additional_amount" validate:"gte=0"`
}

type forceReleaseReq struct {
	Reason string `json:"reason" validate:"required"`
}

type partialReleaseReq struct {
	Amount int64  `json:"amount" validate:"required,centimes"`
	Reason string `json:"reason" validate:"required"`
}

func refFromPath(c echo.Context) (loanref.Ref, bool) {
	kind, err := loanref.ParseKind(c.Param("loan_kind"))
	if err != nil {
		return loanref.Ref{}, false
	}
	id := c.Param("loan_id")
	if !reHex32.MatchString(id) {
		return loanref.Ref{}, false
	}
	return loanref.Ref{Kind: kind, ID: id}, true
}

func (h *EscrowHandler) RequireCollateral(c echo.Context) error {
	var req requireCollateralReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.RequireCollateral(c.Request().Context(), escrow.RequireCollateralInput{
		MemberID:       req.MemberID,
		Ref:            loanref.Ref{Kind: loanref.Kind(req.LoanKind), ID: req.LoanID},
		RequiredAmount: req.RequiredAmount,
	})
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *EscrowHandler) TopUpCollateral(c echo.Context) error {
	ref, ok := refFromPath(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan reference"})
	}
	var req topUpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.TopUpCollateral(c.Request().Context(), ref, req.AdditionalAmount)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *EscrowHandler) ReleaseCollateral(c echo.Context) error {
	ref, ok := refFromPath(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan reference"})
	}
	dto, err := h.uc.ReleaseCollateral(c.Request().Context(), ref)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *EscrowHandler) ForceRelease(c echo.Context) error {
	ref, ok := refFromPath(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan reference"})
	}
	var req forceReleaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.ForceRelease(c.Request().Context(), ref, req.Reason)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *EscrowHandler) PartialRelease(c echo.Context) error {
	ref, ok := refFromPath(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan reference"})
	}
	var req partialReleaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.PartialRelease(c.Request().Context(), ref, req.Amount, req.Reason)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *EscrowHandler) GetCollateral(c echo.Context) error {
	ref, ok := refFromPath(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan reference"})
	}
	dto, err := h.uc.GetCollateralRecord(c.Request().Context(), ref)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *EscrowHandler) ListCollateral(c echo.Context) error {
	f := collateral.Filter{}
	if v := c.QueryParam("member_id"); v != "" {
		if !reHex32.MatchString(v) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid member_id"})
		}
		f.MemberID = v
	}
	if v := c.QueryParam("statut"); v != "" {
		switch collateral.Statut(v) {
		case collateral.StatutPartiel, collateral.StatutComplet, collateral.StatutRembourse:
			f.Statut = collateral.Statut(v)
		default:
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid statut"})
		}
	}
	out, err := h.uc.ListCollateralRecords(c.Request().Context(), f)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}
