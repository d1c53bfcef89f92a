package customer

type RegisterInput struct {
	FirstName     string
	LastName      string
	Age           int
	MonthlyIncome float64
	PhoneNumber   string
}

type CustomerDTO struct {
	CustomerID    uint64  `json:"customer_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	MonthlyIncome float64 `json:"monthly_income"`
	ApprovedLimit float64 `json:"approved_limit"`
	PhoneNumber   string  `json:"phone_number"`
}
