package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"go_ledger/internal/ledger/models"
	"go_ledger/internal/ledger/projection"
	"go_ledger/internal/ledger/statement"
)

// FormatMoney 金额统一两位小数，₹ 前缀
func FormatMoney(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

// FormatUnitValue 工时显示为 "8hr"，天数显示为 "2D"
func FormatUnitValue(unit string, value float64) string {
	v := strconv.FormatFloat(value, 'f', -1, 64)
	if unit == models.UnitHours {
		return v + "hr"
	}
	return v + "D"
}

// RenderMetrics 汇总指标条
func RenderMetrics(m projection.Metrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today's Revenue: %s\n", FormatMoney(m.TodayRevenue))
	fmt.Fprintf(&b, "Pending Amount:  %s\n", FormatMoney(m.PendingAmount))
	fmt.Fprintf(&b, "Company Total:   %s\n", FormatMoney(m.CompanyTotal))
	return b.String()
}

// RenderTransactions 交易表
func RenderTransactions(transactions []models.Transaction) string {
	var b strings.Builder
	b.WriteString("Date       | Name | Time | Amount | Status\n")
	for i := range transactions {
		t := &transactions[i]
		fmt.Fprintf(&b, "%s | %s | %s | %s | %s\n",
			t.Date, t.Name, FormatUnitValue(t.Unit, t.Value), FormatMoney(models.Money(t.Amount)), t.Status)
	}
	return b.String()
}

// RenderExpenses 支出表
func RenderExpenses(expenses []models.Expense) string {
	var b strings.Builder
	b.WriteString("Date       | Description | Amount\n")
	for i := range expenses {
		e := &expenses[i]
		fmt.Fprintf(&b, "%s | %s | %s\n", e.Date, e.Description, FormatMoney(models.Money(e.Amount)))
	}
	return b.String()
}

// RenderLoans 贷款表
func RenderLoans(loans []models.Loan) string {
	var b strings.Builder
	b.WriteString("Name | Taken | Paid | Pending\n")
	for i := range loans {
		l := &loans[i]
		fmt.Fprintf(&b, "%s | %s | %s | %s\n",
			l.Name, FormatMoney(models.Money(l.Taken)), FormatMoney(models.Money(l.Paid)), FormatMoney(models.Money(l.Pending)))
	}
	return b.String()
}

// RenderStatement 对账单
func RenderStatement(st statement.Statement) string {
	title := "Weekly Statement"
	if st.Kind == statement.Monthly {
		title = "Monthly Statement"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (from %s)\n", title, st.From.Format(models.DateLayout))
	fmt.Fprintf(&b, "Revenue:  %s\n", FormatMoney(st.Revenue))
	fmt.Fprintf(&b, "Expenses: %s\n", FormatMoney(st.Expenses))
	if !st.Loans.IsZero() {
		fmt.Fprintf(&b, "Loans:    %s\n", FormatMoney(st.Loans))
	}
	fmt.Fprintf(&b, "Net:      %s\n", FormatMoney(st.Net))
	return b.String()
}
