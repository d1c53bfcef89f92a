package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"credit-approval-service/internal/adapter/worker"
	"credit-approval-service/internal/domain/credit"
	"credit-approval-service/internal/domain/customer"
	"credit-approval-service/internal/domain/loan"

	"github.com/labstack/echo/v4"
)

func errorJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, ErrorResponse{Error: msg})
}

// bindAndValidate writes the 400/422 response itself and reports whether the handler
// should go on.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

func pathID(c echo.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}

// respondError maps usecase errors onto status codes.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, customer.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, customer.ErrNotFound.Error())
	case errors.Is(err, loan.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, loan.ErrNotFound.Error())
	case errors.Is(err, worker.ErrJobNotFound):
		return errorJSON(c, http.StatusNotFound, worker.ErrJobNotFound.Error())
	case errors.Is(err, credit.ErrInvalidArgument):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	slog.ErrorContext(c.Request().Context(), "request failed",
		"method", c.Request().Method, "path", c.Path(), "err", err)
	return errorJSON(c, http.StatusInternalServerError, "internal error")
}
