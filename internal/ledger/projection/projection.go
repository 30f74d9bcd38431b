package projection

import (
	"github.com/shopspring/decimal"

	"go_ledger/internal/ledger/models"
)

// Metrics 汇总指标，每次快照或日期翻转时整体重算，从不落盘
type Metrics struct {
	TodayRevenue  decimal.Decimal // 今日已收营收
	PendingAmount decimal.Decimal // 待收总额
	TotalExpenses decimal.Decimal // 支出总额
	CompanyTotal  decimal.Decimal // 公司滚动结余
}

// View 当前操作员的只读投影：三类分区 + 汇总指标。
// 完全由最新快照和操作员 ID 重建，不持有独立状态。
type View struct {
	Transactions []models.Transaction
	Expenses     []models.Expense
	Loans        []models.Loan
	Metrics      Metrics
}

// Project partitions a snapshot into the actor's typed collections and derives
// the summary metrics. Pure: the same snapshot, actor and day always produce
// the same view. Records owned by other actors or with an unknown type are
// dropped; snapshot order is preserved within each partition.
func Project(snapshot []models.Record, actorID, today string) View {
	var view View

	for i := range snapshot {
		rec := &snapshot[i]
		if rec.UserID != actorID {
			continue
		}
		switch rec.Type {
		case models.TypeTransaction:
			view.Transactions = append(view.Transactions, rec.Transaction())
		case models.TypeExpense:
			view.Expenses = append(view.Expenses, rec.Expense())
		case models.TypeLoan:
			view.Loans = append(view.Loans, rec.Loan())
		}
	}

	view.Metrics = computeMetrics(view, today)
	return view
}

func computeMetrics(view View, today string) Metrics {
	m := Metrics{
		TodayRevenue:  decimal.Zero,
		PendingAmount: decimal.Zero,
		TotalExpenses: decimal.Zero,
		CompanyTotal:  decimal.Zero,
	}

	paidTotal := decimal.Zero
	for i := range view.Transactions {
		t := &view.Transactions[i]
		amount := models.Money(t.Amount)
		if t.IsPaid() {
			paidTotal = paidTotal.Add(amount)
			if t.Date == today {
				m.TodayRevenue = m.TodayRevenue.Add(amount)
			}
		}
		if t.IsPending() {
			m.PendingAmount = m.PendingAmount.Add(amount)
		}
	}

	for i := range view.Expenses {
		m.TotalExpenses = m.TotalExpenses.Add(models.Money(view.Expenses[i].Amount))
	}

	loanFlow := decimal.Zero
	for i := range view.Loans {
		l := &view.Loans[i]
		loanFlow = loanFlow.Add(models.Money(l.Paid)).Sub(models.Money(l.Taken))
	}

	m.CompanyTotal = paidTotal.Sub(m.TotalExpenses).Add(loanFlow)
	return m
}

// FindTransaction 按 ID 查找交易
func (v View) FindTransaction(id string) (models.Transaction, bool) {
	for i := range v.Transactions {
		if v.Transactions[i].ID == id {
			return v.Transactions[i], true
		}
	}
	return models.Transaction{}, false
}

// FindExpense 按 ID 查找支出
func (v View) FindExpense(id string) (models.Expense, bool) {
	for i := range v.Expenses {
		if v.Expenses[i].ID == id {
			return v.Expenses[i], true
		}
	}
	return models.Expense{}, false
}

// FindLoan 按 ID 查找贷款
func (v View) FindLoan(id string) (models.Loan, bool) {
	for i := range v.Loans {
		if v.Loans[i].ID == id {
			return v.Loans[i], true
		}
	}
	return models.Loan{}, false
}

// FindLoanByName 按名称查找贷款（还款表单以名称定位目标贷款）
func (v View) FindLoanByName(name string) (models.Loan, bool) {
	for i := range v.Loans {
		if v.Loans[i].Name == name {
			return v.Loans[i], true
		}
	}
	return models.Loan{}, false
}
