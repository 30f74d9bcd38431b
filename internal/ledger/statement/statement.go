package statement

import (
	"time"

	"github.com/shopspring/decimal"

	"go_ledger/internal/ledger/models"
	"go_ledger/internal/ledger/projection"
)

// Kind 对账单的时间窗口类型
type Kind string

const (
	Weekly  Kind = "weekly"  // 最近 7 天
	Monthly Kind = "monthly" // 最近一个日历月
)

// Statement 一个时间窗口内的财务汇总，每次请求整体重算，不缓存
type Statement struct {
	Kind     Kind
	From     time.Time // 窗口起点（含）
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
	Loans    decimal.Decimal
	Net      decimal.Decimal
}

// WindowStart returns the inclusive lower bound of the trailing window:
// 7 days back for weekly, one calendar month back for monthly. The bound is
// anchored to the start of its calendar day so a record dated exactly
// now-7d still falls inside the window.
func WindowStart(kind Kind, now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if kind == Weekly {
		return day.AddDate(0, 0, -7)
	}
	return day.AddDate(0, -1, 0)
}

// Build computes the statement for the trailing window ending now.
// Revenue counts every transaction in the window regardless of status.
// A loan contributes its full principal when any of its payments falls in
// the window; see DESIGN.md for why this is kept as-is.
func Build(kind Kind, now time.Time, view projection.View) Statement {
	start := WindowStart(kind, now)
	st := Statement{
		Kind:     kind,
		From:     start,
		Revenue:  decimal.Zero,
		Expenses: decimal.Zero,
		Loans:    decimal.Zero,
	}

	for i := range view.Transactions {
		t := &view.Transactions[i]
		if inWindow(t.Date, start) {
			st.Revenue = st.Revenue.Add(models.Money(t.Amount))
		}
	}

	for i := range view.Expenses {
		e := &view.Expenses[i]
		if inWindow(e.Date, start) {
			st.Expenses = st.Expenses.Add(models.Money(e.Amount))
		}
	}

	for i := range view.Loans {
		l := &view.Loans[i]
		if loanInWindow(l, start) {
			st.Loans = st.Loans.Add(models.Money(l.Taken))
		}
	}

	st.Net = st.Revenue.Sub(st.Expenses).Sub(st.Loans)
	return st
}

// inWindow 日期无法解析的记录一律排除
func inWindow(date string, start time.Time) bool {
	d, err := time.ParseInLocation(models.DateLayout, date, start.Location())
	if err != nil {
		return false
	}
	return !d.Before(start)
}

func loanInWindow(l *models.Loan, start time.Time) bool {
	for i := range l.Payments {
		if inWindow(l.Payments[i].Date, start) {
			return true
		}
	}
	return false
}
