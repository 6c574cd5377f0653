package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lakay-collateral/internal/usecase/ledger"
)

type LedgerHandler struct{ uc *ledger.Usecase }

func NewLedgerHandler(uc *ledger.Usecase) *LedgerHandler { return &LedgerHandler{uc: uc} }

type registerMemberReq struct {
	Name string `json:"name" validate:"required"`
}

type movementReq struct {
	Amount int64 `json:"amount" validate:"required,centimes"`
}

func (h *LedgerHandler) RegisterMember(c echo.Context) error {
	var req registerMemberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.RegisterMember(c.Request().Context(), ledger.RegisterMemberInput(req))
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LedgerHandler) Deposit(c echo.Context) error {
	memberID := c.Param("member_id")
	if !reHex32.MatchString(memberID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid member_id"})
	}
	var req movementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Deposit(c.Request().Context(), memberID, req.Amount)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LedgerHandler) Withdraw(c echo.Context) error {
	memberID := c.Param("member_id")
	if !reHex32.MatchString(memberID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid member_id"})
	}
	var req movementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Withdraw(c.Request().Context(), memberID, req.Amount)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LedgerHandler) Balance(c echo.Context) error {
	memberID := c.Param("member_id")
	if !reHex32.MatchString(memberID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid member_id"})
	}
	dto, err := h.uc.AvailableBalance(c.Request().Context(), memberID)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LedgerHandler) Transactions(c echo.Context) error {
	memberID := c.Param("member_id")
	if !reHex32.MatchString(memberID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid member_id"})
	}
	out, err := h.uc.ListTransactions(c.Request().Context(), memberID)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}
