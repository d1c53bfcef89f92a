package http

import (
	"encoding/json"
	"net/http"

	"credit-approval-service/internal/usecase/customer"

	"github.com/labstack/echo/v4"
)

type CustomerHandler struct{ uc *customer.Usecase }

func NewCustomerHandler(uc *customer.Usecase) *CustomerHandler { return &CustomerHandler{uc: uc} }

// phoneNumber accepts both 9876543210 and "9876543210".
type phoneNumber string

func (p *phoneNumber) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = phoneNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = phoneNumber(n.String())
	return nil
}

type registerReq struct {
	FirstName     string      `json:"first_name" validate:"required,max=100"`
	LastName      string      `json:"last_name" validate:"required,max=100"`
	Age           int         `json:"age" validate:"gte=0,lte=150"`
	MonthlyIncome float64     `json:"monthly_income" validate:"gt=0,intlike"`
	PhoneNumber   phoneNumber `json:"phone_number" validate:"required,phone"`
}

func (h *CustomerHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Register(c.Request().Context(), customer.RegisterInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Age:           req.Age,
		MonthlyIncome: req.MonthlyIncome,
		PhoneNumber:   string(req.PhoneNumber),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}
