package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// 记录类型（discriminant）
const (
	TypeTransaction = "transaction"
	TypeExpense     = "expense"
	TypeLoan        = "loan"
)

// 交易状态
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// 计量单位
const (
	UnitHours = "hours"
	UnitDays  = "days"
)

// DateLayout 记录日期的存储格式（与原始文档一致，按天存储）
const DateLayout = "2006-01-02"

// Payment 贷款的一次还款
type Payment struct {
	Amount float64 `firestore:"amount" bson:"amount"`
	Date   string  `firestore:"date" bson:"date"`
}

// Record 集合中每个文档共享的扁平字段集。
// 只有与 Type 匹配的字段有意义，其余保持零值。
type Record struct {
	ID          string    `firestore:"-" bson:"_id,omitempty"`
	Type        string    `firestore:"type" bson:"type"`
	UserID      string    `firestore:"userId" bson:"userId"`
	Date        string    `firestore:"date,omitempty" bson:"date,omitempty"`
	Name        string    `firestore:"name,omitempty" bson:"name,omitempty"`
	Unit        string    `firestore:"unit,omitempty" bson:"unit,omitempty"`
	Value       float64   `firestore:"value,omitempty" bson:"value,omitempty"`
	Amount      float64   `firestore:"amount,omitempty" bson:"amount,omitempty"`
	Status      string    `firestore:"status,omitempty" bson:"status,omitempty"`
	Description string    `firestore:"description,omitempty" bson:"description,omitempty"`
	Taken       float64   `firestore:"taken,omitempty" bson:"taken,omitempty"`
	Paid        float64   `firestore:"paid,omitempty" bson:"paid,omitempty"`
	Pending     float64   `firestore:"pending,omitempty" bson:"pending,omitempty"`
	Payments    []Payment `firestore:"payments,omitempty" bson:"payments,omitempty"`
}

// Transaction 按工时/天数计费的一笔营收记录
type Transaction struct {
	ID     string
	Date   string
	Name   string
	Unit   string
	Value  float64
	Amount float64
	Status string
}

// IsPaid 是否已收款
func (t *Transaction) IsPaid() bool {
	return t.Status == StatusPaid
}

// IsPending 是否待收款
func (t *Transaction) IsPending() bool {
	return t.Status == StatusPending
}

// Expense 一笔支出记录
type Expense struct {
	ID          string
	Date        string
	Description string
	Amount      float64
}

// Loan 一笔贷款及其还款序列
type Loan struct {
	ID       string
	Name     string
	Taken    float64
	Paid     float64
	Pending  float64
	Payments []Payment
}

// Transaction 将记录转为交易视图（调用方负责先检查 Type）
func (r *Record) Transaction() Transaction {
	return Transaction{
		ID:     r.ID,
		Date:   r.Date,
		Name:   r.Name,
		Unit:   r.Unit,
		Value:  r.Value,
		Amount: r.Amount,
		Status: r.Status,
	}
}

// Expense 将记录转为支出视图
func (r *Record) Expense() Expense {
	return Expense{
		ID:          r.ID,
		Date:        r.Date,
		Description: r.Description,
		Amount:      r.Amount,
	}
}

// Loan 将记录转为贷款视图
func (r *Record) Loan() Loan {
	return Loan{
		ID:       r.ID,
		Name:     r.Name,
		Taken:    r.Taken,
		Paid:     r.Paid,
		Pending:  r.Pending,
		Payments: r.Payments,
	}
}

// Money 将文档中的金额转为 decimal；缺失或非法的金额按 0 处理，
// 避免部分写入的文档污染汇总结果。
func Money(amount float64) decimal.Decimal {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(amount)
}
