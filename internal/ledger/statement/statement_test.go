package statement

import (
	"testing"
	"time"

	"go_ledger/internal/ledger/models"
	"go_ledger/internal/ledger/projection"
)

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestWindowStartWeekly(t *testing.T) {
	got := WindowStart(Weekly, day("2024-05-10"))
	if want := day("2024-05-03"); !got.Equal(want) {
		t.Fatalf("weekly window start = %s, want %s", got, want)
	}
}

func TestWindowStartMonthlyFollowsCalendar(t *testing.T) {
	got := WindowStart(Monthly, day("2024-03-31"))
	// 日历月回退，而不是固定 30 天
	if want := day("2024-03-02"); !got.Equal(want) {
		t.Fatalf("monthly window start = %s, want %s", got, want)
	}

	got = WindowStart(Monthly, day("2024-05-15"))
	if want := day("2024-04-15"); !got.Equal(want) {
		t.Fatalf("monthly window start = %s, want %s", got, want)
	}
}

func TestWindowStartIgnoresTimeOfDay(t *testing.T) {
	noon := time.Date(2024, 5, 10, 12, 30, 0, 0, time.UTC)
	got := WindowStart(Weekly, noon)
	if want := day("2024-05-03"); !got.Equal(want) {
		t.Fatalf("window start = %s, want %s", got, want)
	}
}

func TestBuildInclusiveLowerBound(t *testing.T) {
	view := projection.View{
		Transactions: []models.Transaction{
			{ID: "out", Date: "2024-05-02", Amount: 10, Status: models.StatusPaid},
			{ID: "edge", Date: "2024-05-03", Amount: 20, Status: models.StatusPaid},
			{ID: "in", Date: "2024-05-09", Amount: 30, Status: models.StatusPending},
		},
	}

	st := Build(Weekly, day("2024-05-10"), view)

	// 2024-05-02 被排除，边界 2024-05-03 被包含；营收不区分状态
	if got := st.Revenue.StringFixed(2); got != "50.00" {
		t.Fatalf("revenue = %s, want 50.00", got)
	}
}

func TestBuildNetIdentity(t *testing.T) {
	view := projection.View{
		Transactions: []models.Transaction{
			{ID: "t1", Date: "2024-05-08", Amount: 100, Status: models.StatusPaid},
		},
		Expenses: []models.Expense{
			{ID: "e1", Date: "2024-05-09", Amount: 40},
		},
	}

	st := Build(Weekly, day("2024-05-10"), view)

	if got := st.Expenses.StringFixed(2); got != "40.00" {
		t.Fatalf("expenses = %s, want 40.00", got)
	}
	if !st.Net.Equal(st.Revenue.Sub(st.Expenses).Sub(st.Loans)) {
		t.Fatalf("net identity broken: %+v", st)
	}
	if got := st.Net.StringFixed(2); got != "60.00" {
		t.Fatalf("net = %s, want 60.00", got)
	}
}

func TestBuildWideningWindowNeverShrinksTotals(t *testing.T) {
	view := projection.View{
		Transactions: []models.Transaction{
			{ID: "t1", Date: "2024-05-09", Amount: 100, Status: models.StatusPaid},
			{ID: "t2", Date: "2024-04-20", Amount: 50, Status: models.StatusPaid},
		},
		Expenses: []models.Expense{
			{ID: "e1", Date: "2024-04-25", Amount: 10},
		},
	}

	now := day("2024-05-10")
	weekly := Build(Weekly, now, view)
	monthly := Build(Monthly, now, view)

	if monthly.Revenue.LessThan(weekly.Revenue) {
		t.Fatalf("monthly revenue %s < weekly %s", monthly.Revenue, weekly.Revenue)
	}
	if monthly.Expenses.LessThan(weekly.Expenses) {
		t.Fatalf("monthly expenses %s < weekly %s", monthly.Expenses, weekly.Expenses)
	}
	if got := monthly.Revenue.StringFixed(2); got != "150.00" {
		t.Fatalf("monthly revenue = %s, want 150.00", got)
	}
}

func TestBuildLoanCountsFullPrincipalOnAnyPaymentInWindow(t *testing.T) {
	view := projection.View{
		Loans: []models.Loan{
			{ID: "l1", Name: "Car", Taken: 500, Paid: 50, Pending: 450, Payments: []models.Payment{
				{Amount: 50, Date: "2024-05-08"},
			}},
			{ID: "l2", Name: "Bike", Taken: 300, Paid: 300, Pending: 0, Payments: []models.Payment{
				{Amount: 300, Date: "2024-01-01"},
			}},
		},
	}

	st := Build(Weekly, day("2024-05-10"), view)

	// 窗口内有任一还款即计入全部本金；窗口外的贷款不计
	if got := st.Loans.StringFixed(2); got != "500.00" {
		t.Fatalf("loans = %s, want 500.00", got)
	}
	if got := st.Net.StringFixed(2); got != "-500.00" {
		t.Fatalf("net = %s, want -500.00", got)
	}
}

func TestBuildExcludesUnparseableDates(t *testing.T) {
	view := projection.View{
		Transactions: []models.Transaction{
			{ID: "t1", Date: "not-a-date", Amount: 100, Status: models.StatusPaid},
			{ID: "t2", Date: "", Amount: 10, Status: models.StatusPaid},
			{ID: "t3", Date: "2024-05-09", Amount: 5, Status: models.StatusPaid},
		},
	}

	st := Build(Weekly, day("2024-05-10"), view)

	if got := st.Revenue.StringFixed(2); got != "5.00" {
		t.Fatalf("revenue = %s, want 5.00", got)
	}
}
