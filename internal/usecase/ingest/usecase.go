package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"credit-approval-service/internal/domain/credit"
	"credit-approval-service/internal/domain/customer"
	"credit-approval-service/internal/domain/loan"
	"credit-approval-service/internal/infrastructure/spreadsheet"
	"credit-approval-service/internal/metrics"
)

var (
	errMissingCustomer = errors.New("customer does not exist")
)

// Ingester loads historical customers and loans. Rows are independent: a bad row is
// counted and the batch carries on.
type Ingester struct {
	customers customer.Repository
	loans     loan.Repository
	metrics   *metrics.Metrics
	log       *slog.Logger
}

func NewIngester(customers customer.Repository, loans loan.Repository, m *metrics.Metrics, log *slog.Logger) *Ingester {
	if log == nil {
		log = slog.Default()
	}
	return &Ingester{customers: customers, loans: loans, metrics: m, log: log}
}

// ProcessDir ingests CustomerFile then LoanFile from dir, so loans can find their
// customers. A missing file yields a "not found" report.
func (i *Ingester) ProcessDir(ctx context.Context, dir string) []Report {
	out := make([]Report, 0, 2)
	for _, step := range []struct {
		name string
		run  func(context.Context, string) Report
	}{
		{CustomerFile, i.IngestCustomers},
		{LoanFile, i.IngestLoans},
	} {
		path := filepath.Join(dir, step.name)
		if _, err := os.Stat(path); err != nil {
			out = append(out, Report{File: step.name, Message: fmt.Sprintf("%s not found at %s", step.name, path)})
			continue
		}
		out = append(out, step.run(ctx, path))
	}
	return out
}

func (i *Ingester) IngestCustomers(ctx context.Context, path string) Report {
	rep := Report{File: filepath.Base(path)}
	rows, err := spreadsheet.Read(path)
	if err != nil {
		rep.Message = "error ingesting customer data: " + err.Error()
		i.log.ErrorContext(ctx, "ingest customers", "file", path, "err", err)
		return rep
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			rep.Message = "customer ingestion interrupted: " + err.Error()
			i.record("customer", rep)
			return rep
		}
		c, err := customerFromRow(row)
		if err != nil {
			rep.fail(row.Line, err)
			continue
		}
		if c.ID != 0 {
			exists, err := i.customers.Exists(ctx, c.ID)
			if err != nil {
				rep.fail(row.Line, err)
				continue
			}
			if exists {
				rep.Skipped++
				continue
			}
		}
		if err := i.customers.Create(ctx, c); err != nil {
			rep.fail(row.Line, err)
			continue
		}
		rep.Succeeded++
	}

	rep.Completed = true
	rep.Message = fmt.Sprintf("ingested %d customer records, skipped %d, errors %d", rep.Succeeded, rep.Skipped, rep.Failed)
	i.record("customer", rep)
	i.log.InfoContext(ctx, "ingest customers", "file", path, "succeeded", rep.Succeeded, "skipped", rep.Skipped, "failed", rep.Failed)
	return rep
}

func (i *Ingester) IngestLoans(ctx context.Context, path string) Report {
	rep := Report{File: filepath.Base(path)}
	rows, err := spreadsheet.Read(path)
	if err != nil {
		rep.Message = "error ingesting loan data: " + err.Error()
		i.log.ErrorContext(ctx, "ingest loans", "file", path, "err", err)
		return rep
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			rep.Message = "loan ingestion interrupted: " + err.Error()
			i.record("loan", rep)
			return rep
		}
		l, err := loanFromRow(row)
		if err != nil {
			rep.fail(row.Line, err)
			continue
		}
		i.checkRepayment(ctx, row, l)
		ok, err := i.customers.Exists(ctx, l.CustomerID)
		if err != nil {
			rep.fail(row.Line, err)
			continue
		}
		if !ok {
			rep.fail(row.Line, fmt.Errorf("%w: %d", errMissingCustomer, l.CustomerID))
			continue
		}
		if l.ID != 0 {
			exists, err := i.loans.Exists(ctx, l.ID)
			if err != nil {
				rep.fail(row.Line, err)
				continue
			}
			if exists {
				rep.Skipped++
				continue
			}
		}
		if err := i.loans.Create(ctx, l); err != nil {
			rep.fail(row.Line, err)
			continue
		}
		rep.Succeeded++
	}

	rep.Completed = true
	rep.Message = fmt.Sprintf("ingested %d loan records, skipped %d, errors %d", rep.Succeeded, rep.Skipped, rep.Failed)
	i.record("loan", rep)
	i.log.InfoContext(ctx, "ingest loans", "file", path, "succeeded", rep.Succeeded, "skipped", rep.Skipped, "failed", rep.Failed)
	return rep
}

// checkRepayment logs when the file's monthly_repayment disagrees with the calculator by
// more than a cent. The calculated value is stored either way.
func (i *Ingester) checkRepayment(ctx context.Context, row spreadsheet.Row, l *loan.Loan) {
	if !row.Has("monthly_repayment") {
		return
	}
	f, err := spreadsheet.ParseNumber(row.Get("monthly_repayment"))
	if err == nil && math.Abs(f-l.MonthlyRepayment) <= 0.01 {
		return
	}
	i.log.WarnContext(ctx, "monthly_repayment differs from calculated installment",
		"row", row.Line, "loan_id", l.ID, "file_value", row.Get("monthly_repayment"), "calculated", l.MonthlyRepayment)
}

func (i *Ingester) record(entity string, rep Report) {
	i.metrics.AddIngestRows(entity, "succeeded", rep.Succeeded)
	i.metrics.AddIngestRows(entity, "skipped", rep.Skipped)
	i.metrics.AddIngestRows(entity, "failed", rep.Failed)
}

// customerFromRow applies the defaults for optional columns: age 0, empty phone, no
// current debt and an approved limit derived from the salary.
func customerFromRow(row spreadsheet.Row) (*customer.Customer, error) {
	c := &customer.Customer{
		FirstName:   row.Get("first_name"),
		LastName:    row.Get("last_name"),
		PhoneNumber: phone(row.Get("phone_number")),
	}
	var err error
	if row.Has("customer_id") {
		if c.ID, err = spreadsheet.ParseID(row.Get("customer_id")); err != nil {
			return nil, err
		}
	}
	if c.MonthlySalary, err = number(row, "monthly_salary"); err != nil {
		return nil, err
	}
	if row.Has("age") {
		if c.Age, err = whole(row, "age", 0, 150); err != nil {
			return nil, err
		}
	}
	if row.Has("current_debt") {
		if c.CurrentDebt, err = spreadsheet.ParseNumber(row.Get("current_debt")); err != nil {
			return nil, fmt.Errorf("invalid current_debt %q", row.Get("current_debt"))
		}
	}
	if row.Has("approved_limit") {
		if c.ApprovedLimit, err = spreadsheet.ParseNumber(row.Get("approved_limit")); err != nil {
			return nil, fmt.Errorf("invalid approved_limit %q", row.Get("approved_limit"))
		}
	} else if c.ApprovedLimit, err = credit.ApprovedLimit(c.MonthlySalary); err != nil {
		return nil, err
	}
	return c, nil
}

// loanFromRow derives monthly_repayment from amount, rate and tenure, whatever the
// file says, so stored installments always agree with the calculator.
func loanFromRow(row spreadsheet.Row) (*loan.Loan, error) {
	l := &loan.Loan{Status: loan.StatusApproved}
	var err error
	if l.CustomerID, err = spreadsheet.ParseID(row.Get("customer_id")); err != nil {
		return nil, fmt.Errorf("customer_id: %w", err)
	}
	if row.Has("loan_id") {
		if l.ID, err = spreadsheet.ParseID(row.Get("loan_id")); err != nil {
			return nil, fmt.Errorf("loan_id: %w", err)
		}
	}
	if l.LoanAmount, err = number(row, "loan_amount"); err != nil {
		return nil, err
	}
	if l.InterestRate, err = number(row, "interest_rate"); err != nil {
		return nil, err
	}
	if !row.Has("tenure") {
		return nil, errors.New("missing tenure")
	}
	if l.Tenure, err = whole(row, "tenure", 1, maxTenureMonths); err != nil {
		return nil, err
	}
	if row.Has("emis_paid_on_time") {
		if l.EMIsPaidOnTime, err = whole(row, "emis_paid_on_time", 0, l.Tenure); err != nil {
			return nil, err
		}
	}
	if l.StartDate, err = optionalDate(row, "start_date"); err != nil {
		return nil, err
	}
	if l.EndDate, err = optionalDate(row, "end_date"); err != nil {
		return nil, err
	}
	if l.MonthlyRepayment, err = credit.ComputeEMI(l.LoanAmount, l.InterestRate, l.Tenure); err != nil {
		return nil, err
	}
	return l, nil
}

func number(row spreadsheet.Row, col string) (float64, error) {
	if !row.Has(col) {
		return 0, fmt.Errorf("missing %s", col)
	}
	f, err := spreadsheet.ParseNumber(row.Get(col))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", col, row.Get(col))
	}
	return f, nil
}

// whole parses a count column that must be an integer in [lo, hi].
func whole(row spreadsheet.Row, col string, lo, hi int) (int, error) {
	f, err := spreadsheet.ParseNumber(row.Get(col))
	if err != nil || f != math.Trunc(f) || f < float64(lo) || f > float64(hi) {
		return 0, fmt.Errorf("invalid %s %q: want a whole number between %d and %d", col, row.Get(col), lo, hi)
	}
	return int(f), nil
}

func optionalDate(row spreadsheet.Row, col string) (*time.Time, error) {
	if !row.Has(col) {
		return nil, nil
	}
	t, err := spreadsheet.ParseDate(row.Get(col))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", col, err)
	}
	return &t, nil
}

// phone undoes spreadsheet float formatting such as "9876543210.0".
func phone(s string) string {
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

func rowError(line int, err error) string {
	return fmt.Sprintf("row %d: %v", line, err)
}
