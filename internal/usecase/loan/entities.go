package loan

// Input is shared by the eligibility check and loan creation.
type Input struct {
	CustomerID   uint64
	LoanAmount   float64
	InterestRate float64
	Tenure       int
}

type EligibilityDTO struct {
	CustomerID            uint64  `json:"customer_id"`
	Approval              bool    `json:"approval"`
	InterestRate          float64 `json:"interest_rate"`
	CorrectedInterestRate float64 `json:"corrected_interest_rate"`
	Tenure                int     `json:"tenure"`
	MonthlyInstallment    float64 `json:"monthly_installment"`
}

// CreateResultDTO carries a nil LoanID when the loan was not approved.
type CreateResultDTO struct {
	LoanID             *uint64 `json:"loan_id"`
	CustomerID         uint64  `json:"customer_id"`
	LoanApproved       bool    `json:"loan_approved"`
	Message            string  `json:"message"`
	MonthlyInstallment float64 `json:"monthly_installment"`
}

type CustomerSummary struct {
	CustomerID  uint64 `json:"customer_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Age         int    `json:"age"`
}

type LoanDetailDTO struct {
	LoanID           uint64          `json:"loan_id"`
	Customer         CustomerSummary `json:"customer"`
	LoanAmount       float64         `json:"loan_amount"`
	InterestRate     float64         `json:"interest_rate"`
	MonthlyRepayment float64         `json:"monthly_repayment"`
	Tenure           int             `json:"tenure"`
}

type LoanSummaryDTO struct {
	LoanID           uint64  `json:"loan_id"`
	LoanAmount       float64 `json:"loan_amount"`
	InterestRate     float64 `json:"interest_rate"`
	MonthlyRepayment float64 `json:"monthly_repayment"`
	RepaymentsLeft   int     `json:"repayments_left"`
}
