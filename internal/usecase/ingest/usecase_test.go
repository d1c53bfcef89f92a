package ingest

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"credit-approval-service/internal/adapter/repository/mysql"
	"credit-approval-service/internal/domain/loan"
	"credit-approval-service/internal/infrastructure/db"
	"credit-approval-service/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixture struct {
	ing       *Ingester
	customers *mysql.CustomerRepository
	loans     *mysql.LoanRepository
	metrics   *metrics.Metrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	f := fixture{
		customers: mysql.NewCustomerRepository(gdb),
		loans:     mysql.NewLoanRepository(gdb),
		metrics:   metrics.New(prometheus.NewRegistry()),
	}
	f.ing = NewIngester(f.customers, f.loans, f.metrics, nil)
	return f
}

func writeXLSX(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func writeCSV(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return p
}

func TestProcessDir(t *testing.T) {
	fx := newFixture(t)
	dir := t.TempDir()
	ctx := context.Background()

	writeXLSX(t, filepath.Join(dir, CustomerFile), [][]any{
		{"Customer ID", "First Name", "Last Name", "Age", "Phone Number", "Monthly Salary", "Approved Limit"},
		{1, "Asha", "Rao", 31, 9876543210, 50000, 1800000},
		{2, "Ravi", "Kumar", 45, 9123456780, 83333, ""},
	})
	writeXLSX(t, filepath.Join(dir, LoanFile), [][]any{
		{"Customer ID", "Loan ID", "Loan Amount", "Tenure", "Interest Rate", "Monthly payment", "EMIs paid on Time", "Date of Approval", "End Date"},
		{1, 7001, 100000, 12, 10, 1, 10, 45292, 45658},
		{2, 7002, 500000, 24, 12, 0, 4, "2025-11-01", ""},
		{3, 7003, 1000, 12, 10, 0, 0, "", ""},
	})

	reports := fx.ing.ProcessDir(ctx, dir)
	require.Len(t, reports, 2)

	assert.Equal(t, CustomerFile, reports[0].File)
	assert.Equal(t, 2, reports[0].Succeeded)
	assert.Equal(t, "ingested 2 customer records, skipped 0, errors 0", reports[0].Message)
	assert.True(t, AllCompleted(reports), "row errors do not make a file incomplete")

	assert.Equal(t, LoanFile, reports[1].File)
	assert.Equal(t, 2, reports[1].Succeeded)
	assert.Equal(t, 1, reports[1].Failed, "loan for an unknown customer")
	require.Len(t, reports[1].Errors, 1)
	assert.Contains(t, reports[1].Errors[0], "row 4")

	ravi, err := fx.customers.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3000000.0, ravi.ApprovedLimit, "derived when missing")
	assert.Equal(t, "9123456780", ravi.PhoneNumber)

	l, err := fx.loans.GetByID(ctx, 7001)
	require.NoError(t, err)
	assert.Equal(t, loan.StatusApproved, l.Status)
	assert.Equal(t, 8791.59, l.MonthlyRepayment, "repayment comes from the calculator")
	assert.Equal(t, 10, l.EMIsPaidOnTime)
	require.NotNil(t, l.StartDate)
	assert.Equal(t, "2024-01-01", l.StartDate.Format("2006-01-02"))
	require.NotNil(t, l.EndDate)
	assert.Equal(t, "2025-01-01", l.EndDate.Format("2006-01-02"))

	l2, err := fx.loans.GetByID(ctx, 7002)
	require.NoError(t, err)
	assert.Equal(t, 23536.74, l2.MonthlyRepayment)
	assert.Nil(t, l2.EndDate)

	assert.Equal(t, 2.0, testutil.ToFloat64(fx.metrics.IngestRows.WithLabelValues("loan", "succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(fx.metrics.IngestRows.WithLabelValues("loan", "failed")))
}

func TestProcessDir_IsRepeatable(t *testing.T) {
	fx := newFixture(t)
	dir := t.TempDir()

	writeXLSX(t, filepath.Join(dir, CustomerFile), [][]any{
		{"customer_id", "first_name", "last_name", "monthly_salary"},
		{10, "A", "B", 40000},
	})
	writeXLSX(t, filepath.Join(dir, LoanFile), [][]any{
		{"customer_id", "loan_id", "loan_amount", "tenure", "interest_rate"},
		{10, 501, 20000, 6, 9.5},
	})

	first := fx.ing.ProcessDir(context.Background(), dir)
	second := fx.ing.ProcessDir(context.Background(), dir)

	assert.Equal(t, 1, first[0].Succeeded)
	assert.Equal(t, 1, first[1].Succeeded)
	assert.Equal(t, 1, second[0].Skipped)
	assert.Equal(t, 1, second[1].Skipped)
	assert.Zero(t, second[0].Succeeded+second[1].Succeeded)
}

func TestProcessDir_MissingFiles(t *testing.T) {
	fx := newFixture(t)
	reports := fx.ing.ProcessDir(context.Background(), t.TempDir())

	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.Contains(t, r.Message, "not found")
		assert.Zero(t, r.Succeeded+r.Failed+r.Skipped)
	}
	assert.False(t, AllCompleted(reports))
}

func TestIngestCustomers_CSVDefaultsAndRowErrors(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	p := writeCSV(t, t.TempDir(), "customers.csv",
		"customer_id,first_name,last_name,monthly_salary,age",
		"1,Asha,Rao,50000,",
		"2,Bad,Salary,abc,30",
		"3,No,Salary,,30",
		",Auto,Id,60000,40",
	)

	rep := fx.ing.IngestCustomers(ctx, p)
	assert.Equal(t, 2, rep.Succeeded)
	assert.Equal(t, 2, rep.Failed)
	require.Len(t, rep.Errors, 2)
	assert.Contains(t, rep.Errors[0], "row 3")
	assert.Contains(t, rep.Errors[1], "missing monthly_salary")

	asha, err := fx.customers.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, asha.Age)
	assert.Empty(t, asha.PhoneNumber)
	assert.Zero(t, asha.CurrentDebt)
	assert.Equal(t, 1800000.0, asha.ApprovedLimit)
}

func TestIngestLoans_InvalidRows(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()

	fx.ing.IngestCustomers(ctx, writeCSV(t, dir, "c.csv", "customer_id,first_name,last_name,monthly_salary", "1,A,B,50000"))
	rep := fx.ing.IngestLoans(ctx, writeCSV(t, dir, "l.csv",
		"customer_id,loan_id,loan_amount,tenure,interest_rate,start_date",
		"1,11,10000,0,10,",
		"1,12,10000,12,10,not-a-date",
		"x,13,10000,12,10,",
		"1,14,10000,12,10,3/7/22",
	))

	assert.Equal(t, 1, rep.Succeeded)
	assert.Equal(t, 3, rep.Failed)

	l, err := fx.loans.GetByID(ctx, 14)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, time.March, 7, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), l.StartDate.Format("2006-01-02"))
}

func TestIngestLoans_CountColumnsMustBeWholeAndInRange(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()

	fx.ing.IngestCustomers(ctx, writeCSV(t, dir, "c.csv", "customer_id,first_name,last_name,monthly_salary", "1,A,B,50000"))
	rep := fx.ing.IngestLoans(ctx, writeCSV(t, dir, "l.csv",
		"customer_id,loan_id,loan_amount,tenure,interest_rate,emis_paid_on_time",
		"1,21,10000,12,10,12",
		"1,22,10000,12.7,10,0",
		"1,23,10000,1e12,10,0",
		"1,24,10000,12,10,13",
		"1,25,10000,12,10,3.5",
		"1,26,10000,12,10,-1",
		"1,27,10000,NaN,10,0",
	))

	assert.Equal(t, 1, rep.Succeeded)
	assert.Equal(t, 6, rep.Failed)
	require.Len(t, rep.Errors, 6)
	for i, col := range []string{"tenure", "tenure", "emis_paid_on_time", "emis_paid_on_time", "emis_paid_on_time", "tenure"} {
		assert.Contains(t, rep.Errors[i], "row "+strconv.Itoa(i+3))
		assert.Contains(t, rep.Errors[i], "invalid "+col)
	}

	l, err := fx.loans.GetByID(ctx, 21)
	require.NoError(t, err)
	assert.Equal(t, 12, l.EMIsPaidOnTime)
}

func TestIngestLoans_LongTenureRowDoesNotStopTheBatch(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()

	fx.ing.IngestCustomers(ctx, writeCSV(t, dir, "c.csv", "customer_id,first_name,last_name,monthly_salary", "1,A,B,50000"))
	rep := fx.ing.IngestLoans(ctx, writeCSV(t, dir, "l.csv",
		"customer_id,loan_id,loan_amount,tenure,interest_rate",
		"1,31,100000,12,10",
		"1,32,100000,100000,10",
		"1,33,100000,600,1000000",
	))

	assert.True(t, rep.Completed)
	assert.Equal(t, 2, rep.Succeeded)
	assert.Equal(t, 1, rep.Failed)
	require.Len(t, rep.Errors, 1)
	assert.Contains(t, rep.Errors[0], "row 3")

	l, err := fx.loans.GetByID(ctx, 33)
	require.NoError(t, err)
	assert.Equal(t, 83333333.33, l.MonthlyRepayment, "overflowing factor falls back to the monthly interest")
}

func TestIngestLoans_WarnsOnRepaymentMismatch(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	dir := t.TempDir()
	var logs bytes.Buffer
	fx.ing = NewIngester(fx.customers, fx.loans, nil, slog.New(slog.NewTextHandler(&logs, nil)))

	fx.ing.IngestCustomers(ctx, writeCSV(t, dir, "c.csv", "customer_id,first_name,last_name,monthly_salary", "1,A,B,50000"))
	rep := fx.ing.IngestLoans(ctx, writeCSV(t, dir, "l.csv",
		"customer_id,loan_id,loan_amount,tenure,interest_rate,monthly_payment",
		"1,41,100000,12,10,8791.59",
		"1,42,100000,12,10,9000",
	))
	require.Equal(t, 2, rep.Succeeded)

	out := logs.String()
	assert.Equal(t, 1, strings.Count(out, "monthly_repayment differs"))
	assert.Contains(t, out, "loan_id=42")

	l, err := fx.loans.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 8791.59, l.MonthlyRepayment)
}

func TestIngest_UnreadableFile(t *testing.T) {
	fx := newFixture(t)
	p := writeCSV(t, t.TempDir(), "customer_data.xlsx", "this is not a workbook")

	rep := fx.ing.IngestCustomers(context.Background(), p)
	assert.Contains(t, rep.Message, "error ingesting customer data")
	assert.False(t, rep.Completed)
	assert.Zero(t, rep.Succeeded)

	rep = fx.ing.IngestLoans(context.Background(), p)
	assert.Contains(t, rep.Message, "error ingesting loan data")
}

func TestIngest_StopsOnCancelledContext(t *testing.T) {
	fx := newFixture(t)
	p := writeCSV(t, t.TempDir(), "c.csv", "customer_id,first_name,last_name,monthly_salary", "1,A,B,50000")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep := fx.ing.IngestCustomers(ctx, p)
	assert.Contains(t, rep.Message, "interrupted")
	assert.False(t, rep.Completed)
	assert.Zero(t, rep.Succeeded)
}
