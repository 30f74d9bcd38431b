package projection

import (
	"math"
	"testing"

	"go_ledger/internal/ledger/models"
)

const today = "2024-05-01"

func TestProjectPartitionsByOwnerAndType(t *testing.T) {
	snapshot := []models.Record{
		{ID: "t1", Type: models.TypeTransaction, UserID: "u1", Date: today, Amount: 100, Status: models.StatusPaid},
		{ID: "t2", Type: models.TypeTransaction, UserID: "u2", Date: today, Amount: 999, Status: models.StatusPaid},
		{ID: "e1", Type: models.TypeExpense, UserID: "u1", Date: today, Amount: 40},
		{ID: "l1", Type: models.TypeLoan, UserID: "u1", Name: "Car", Taken: 500},
		{ID: "x1", Type: "invoice", UserID: "u1", Amount: 77},
	}

	view := Project(snapshot, "u1", today)

	if len(view.Transactions) != 1 || view.Transactions[0].ID != "t1" {
		t.Fatalf("expected only u1's transaction, got %+v", view.Transactions)
	}
	if len(view.Expenses) != 1 || view.Expenses[0].ID != "e1" {
		t.Fatalf("expected one expense, got %+v", view.Expenses)
	}
	if len(view.Loans) != 1 || view.Loans[0].ID != "l1" {
		t.Fatalf("expected one loan, got %+v", view.Loans)
	}
}

func TestProjectPreservesSnapshotOrder(t *testing.T) {
	snapshot := []models.Record{
		{ID: "t3", Type: models.TypeTransaction, UserID: "u1", Amount: 1, Status: models.StatusPaid},
		{ID: "t1", Type: models.TypeTransaction, UserID: "u1", Amount: 2, Status: models.StatusPaid},
		{ID: "t2", Type: models.TypeTransaction, UserID: "u1", Amount: 3, Status: models.StatusPaid},
	}

	view := Project(snapshot, "u1", today)

	want := []string{"t3", "t1", "t2"}
	for i, id := range want {
		if view.Transactions[i].ID != id {
			t.Fatalf("order not preserved: got %s at %d, want %s", view.Transactions[i].ID, i, id)
		}
	}
}

func TestMetricsPaidTransactionToday(t *testing.T) {
	snapshot := []models.Record{
		{ID: "t1", Type: models.TypeTransaction, UserID: "u1", Date: "2024-05-01", Amount: 100, Status: models.StatusPaid},
	}

	view := Project(snapshot, "u1", "2024-05-01")

	if got := view.Metrics.TodayRevenue.StringFixed(2); got != "100.00" {
		t.Fatalf("todayRevenue = %s, want 100.00", got)
	}
	if got := view.Metrics.PendingAmount.StringFixed(2); got != "0.00" {
		t.Fatalf("pendingAmount = %s, want 0.00", got)
	}
	if got := view.Metrics.CompanyTotal.StringFixed(2); got != "100.00" {
		t.Fatalf("companyTotal = %s, want 100.00", got)
	}
}

func TestMetricsExpenseReducesCompanyTotal(t *testing.T) {
	snapshot := []models.Record{
		{ID: "t1", Type: models.TypeTransaction, UserID: "u1", Date: "2024-05-01", Amount: 100, Status: models.StatusPaid},
		{ID: "e1", Type: models.TypeExpense, UserID: "u1", Date: "2024-05-01", Amount: 40},
	}

	view := Project(snapshot, "u1", "2024-05-01")

	if got := view.Metrics.CompanyTotal.StringFixed(2); got != "60.00" {
		t.Fatalf("companyTotal = %s, want 60.00", got)
	}
	if got := view.Metrics.TotalExpenses.StringFixed(2); got != "40.00" {
		t.Fatalf("totalExpenses = %s, want 40.00", got)
	}
}

func TestMetricsTodayRevenueIgnoresOtherDays(t *testing.T) {
	snapshot := []models.Record{
		{ID: "t1", Type: models.TypeTransaction, UserID: "u1", Date: "2024-04-30", Amount: 100, Status: models.StatusPaid},
		{ID: "t2", Type: models.TypeTransaction, UserID: "u1", Date: "2024-05-01", Amount: 25, Status: models.StatusPaid},
	}

	view := Project(snapshot, "u1", "2024-05-01")

	if got := view.Metrics.TodayRevenue.StringFixed(2); got != "25.00" {
		t.Fatalf("todayRevenue = %s, want 25.00", got)
	}
	// 历史已收仍计入滚动结余
	if got := view.Metrics.CompanyTotal.StringFixed(2); got != "125.00" {
		t.Fatalf("companyTotal = %s, want 125.00", got)
	}
}

func TestMetricsStatusToggleMovesAmountBetweenColumns(t *testing.T) {
	pending := []models.Record{
		{ID: "t1", Type: models.TypeTransaction, UserID: "u1", Date: today, Amount: 30, Status: models.StatusPending},
	}
	before := Project(pending, "u1", today)
	if got := before.Metrics.PendingAmount.StringFixed(2); got != "30.00" {
		t.Fatalf("pendingAmount = %s, want 30.00", got)
	}
	if got := before.Metrics.TodayRevenue.StringFixed(2); got != "0.00" {
		t.Fatalf("todayRevenue = %s, want 0.00", got)
	}

	paid := []models.Record{
		{ID: "t1", Type: models.TypeTransaction, UserID: "u1", Date: today, Amount: 30, Status: models.StatusPaid},
	}
	after := Project(paid, "u1", today)
	if got := after.Metrics.PendingAmount.StringFixed(2); got != "0.00" {
		t.Fatalf("pendingAmount = %s, want 0.00", got)
	}
	if got := after.Metrics.TodayRevenue.StringFixed(2); got != "30.00" {
		t.Fatalf("todayRevenue = %s, want 30.00", got)
	}
}

func TestMetricsMalformedAmountCountsAsZero(t *testing.T) {
	snapshot := []models.Record{
		{ID: "t1", Type: models.TypeTransaction, UserID: "u1", Date: today, Amount: math.NaN(), Status: models.StatusPaid},
		{ID: "t2", Type: models.TypeTransaction, UserID: "u1", Date: today, Amount: 50, Status: models.StatusPaid},
	}

	view := Project(snapshot, "u1", today)

	// 坏记录仍出现在分区里，只是不计入汇总
	if len(view.Transactions) != 2 {
		t.Fatalf("expected malformed record to stay in partition, got %d", len(view.Transactions))
	}
	if got := view.Metrics.TodayRevenue.StringFixed(2); got != "50.00" {
		t.Fatalf("todayRevenue = %s, want 50.00", got)
	}
}

func TestMetricsLoanFlowsAdjustCompanyTotal(t *testing.T) {
	snapshot := []models.Record{
		{ID: "t1", Type: models.TypeTransaction, UserID: "u1", Date: today, Amount: 100, Status: models.StatusPaid},
		{ID: "l1", Type: models.TypeLoan, UserID: "u1", Name: "Car", Taken: 500, Paid: 200, Pending: 300},
	}

	view := Project(snapshot, "u1", today)

	// 100 - 0 + (200 - 500)
	if got := view.Metrics.CompanyTotal.StringFixed(2); got != "-200.00" {
		t.Fatalf("companyTotal = %s, want -200.00", got)
	}
}

func TestFindLoanByName(t *testing.T) {
	view := Project([]models.Record{
		{ID: "l1", Type: models.TypeLoan, UserID: "u1", Name: "Car", Taken: 500},
	}, "u1", today)

	if _, ok := view.FindLoanByName("Car"); !ok {
		t.Fatalf("expected to find loan by name")
	}
	if _, ok := view.FindLoanByName("Bike"); ok {
		t.Fatalf("did not expect to find unknown loan")
	}
}
