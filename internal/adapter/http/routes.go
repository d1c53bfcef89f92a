package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health    *Handler
	Customers *CustomerHandler
	Loans     *LoanHandler
	Ingest    *IngestHandler
}

// RegisterRoutes mounts the API. idem guards the endpoints that create rows.
func RegisterRoutes(e *echo.Echo, h Handlers, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	e.POST("/register", h.Customers.Register, idem)
	e.POST("/check-eligibility", h.Loans.CheckEligibility)
	e.POST("/create-loan", h.Loans.CreateLoan, idem)
	e.GET("/view-loan/:loan_id", h.Loans.ViewLoan)
	e.GET("/view-loans/:customer_id", h.Loans.ViewLoans)

	e.POST("/ingest", h.Ingest.Enqueue)
	e.GET("/ingest/:job_id", h.Ingest.Job)
}
