package http

import (
	"net/http"

	"credit-approval-service/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type loanReq struct {
	CustomerID   uint64  `json:"customer_id" validate:"required"`
	LoanAmount   float64 `json:"loan_amount" validate:"gt=0,dec2"`
	InterestRate float64 `json:"interest_rate" validate:"gte=0,lte=100,dec2"`
	Tenure       int     `json:"tenure" validate:"gt=0,lte=600"`
}

func (r loanReq) input() loan.Input {
	return loan.Input{
		CustomerID:   r.CustomerID,
		LoanAmount:   r.LoanAmount,
		InterestRate: r.InterestRate,
		Tenure:       r.Tenure,
	}
}

func (h *LoanHandler) CheckEligibility(c echo.Context) error {
	var req loanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CheckEligibility(c.Request().Context(), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// CreateLoan answers 201 when a loan was booked and 200 for a policy rejection.
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req loanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), req.input())
	if err != nil {
		return respondError(c, err)
	}
	if !dto.LoanApproved {
		return c.JSON(http.StatusOK, dto)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) ViewLoan(c echo.Context) error {
	loanID, ok := pathID(c, "loan_id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid loan_id")
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ViewLoans(c echo.Context) error {
	customerID, ok := pathID(c, "customer_id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid customer_id")
	}
	list, err := h.uc.ListByCustomer(c.Request().Context(), customerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
