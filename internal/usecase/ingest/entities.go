package ingest

const (
	CustomerFile = "customer_data.xlsx"
	LoanFile     = "loan_data.xlsx"

	// row errors kept on a report
	maxRowErrors = 20

	maxTenureMonths = 1200
)

// Report summarizes one file. Message is set for every report, and is the only content
// when the file could not be read at all.
type Report struct {
	File      string   `json:"file"`
	Succeeded int      `json:"succeeded"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Message   string   `json:"message"`
	// Completed is false when the file was missing, unreadable or interrupted.
	Completed bool     `json:"completed"`
	Errors    []string `json:"errors,omitempty"`
}

// AllCompleted reports whether every file was read to the end.
func AllCompleted(reports []Report) bool {
	for _, r := range reports {
		if !r.Completed {
			return false
		}
	}
	return true
}

func (r *Report) fail(line int, err error) {
	r.Failed++
	if len(r.Errors) < maxRowErrors {
		r.Errors = append(r.Errors, rowError(line, err))
	}
}
