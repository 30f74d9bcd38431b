package editor

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go_ledger/internal/ledger/models"
	"go_ledger/internal/ledger/projection"
	"go_ledger/internal/ledger/store"
)

// Kind 编辑器面向的记录种类。payment 不是独立的记录类型：
// 它的提交落在目标贷款文档上。
type Kind string

const (
	KindTransaction Kind = "transaction"
	KindExpense     Kind = "expense"
	KindLoan        Kind = "loan"
	KindPayment     Kind = "payment"
)

// Mode 编辑器模式
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// 编辑器错误
var (
	ErrClosed     = errors.New("editor is not open")
	ErrValidation = errors.New("invalid form")
)

// Form 是编辑器打开期间持有的按种类区分的字段集。
// 各种类各自声明字段，即使渲染层复用同一个输入控件，
// 在这里也绝不共享存储槽位。
type Form interface {
	Kind() Kind
}

// TransactionForm 交易表单
type TransactionForm struct {
	Date   string
	Name   string
	Unit   string
	Value  float64
	Amount float64
	Status string
}

func (TransactionForm) Kind() Kind { return KindTransaction }

// ExpenseForm 支出表单
type ExpenseForm struct {
	Date        string
	Description string
	Amount      float64
}

func (ExpenseForm) Kind() Kind { return KindExpense }

// LoanForm 贷款表单；Taken 是贷款本金，与还款金额是两个不同的逻辑字段
type LoanForm struct {
	Name  string
	Taken float64
}

func (LoanForm) Kind() Kind { return KindLoan }

// PaymentForm 还款表单，按名称定位目标贷款
type PaymentForm struct {
	LoanName string
	Amount   float64
	Date     string
}

func (PaymentForm) Kind() Kind { return KindPayment }

// State 编辑器的完整状态；Open 为 false 时其余字段无意义
type State struct {
	Open     bool
	Kind     Kind
	Mode     Mode
	TargetID string // ModeEdit 时的目标记录 ID
	Form     Form
}

// Editor 管理三类记录共享的单个编辑表单。
// 同一时刻最多打开一条记录；状态整体替换，从不原地修补。
type Editor struct {
	state State
}

// New 创建关闭状态的编辑器
func New() *Editor {
	return &Editor{}
}

// State 返回当前状态的副本
func (e *Editor) State() State {
	return e.state
}

// OpenCreate opens an empty form of the given kind. Switching kind replaces
// the whole state, so values never bleed between kinds.
func (e *Editor) OpenCreate(kind Kind) {
	e.state = State{Open: true, Kind: kind, Mode: ModeCreate, Form: emptyForm(kind)}
}

// OpenEdit resolves the target record by id from the union of all partitions
// and opens a pre-populated form of the matching kind. Returns false and
// stays closed when the id resolves to nothing (stale identifier guard).
func (e *Editor) OpenEdit(id string, view projection.View) bool {
	if t, ok := view.FindTransaction(id); ok {
		e.state = State{Open: true, Kind: KindTransaction, Mode: ModeEdit, TargetID: id, Form: TransactionForm{
			Date:   t.Date,
			Name:   t.Name,
			Unit:   t.Unit,
			Value:  t.Value,
			Amount: t.Amount,
			Status: t.Status,
		}}
		return true
	}
	if x, ok := view.FindExpense(id); ok {
		e.state = State{Open: true, Kind: KindExpense, Mode: ModeEdit, TargetID: id, Form: ExpenseForm{
			Date:        x.Date,
			Description: x.Description,
			Amount:      x.Amount,
		}}
		return true
	}
	if l, ok := view.FindLoan(id); ok {
		e.state = State{Open: true, Kind: KindLoan, Mode: ModeEdit, TargetID: id, Form: LoanForm{
			Name:  l.Name,
			Taken: l.Taken,
		}}
		return true
	}
	return false
}

// Close 取消编辑（关闭按钮、遮罩点击等一律走这里）
func (e *Editor) Close() {
	e.state = State{}
}

// Submit validates the form and turns it into exactly one store command.
// On success the editor closes; on a validation error the state is left
// untouched so the operator can correct the form and retry.
func (e *Editor) Submit(actorID string, form Form, view projection.View) (store.Command, error) {
	if !e.state.Open {
		return store.Command{}, ErrClosed
	}
	if form == nil || form.Kind() != e.state.Kind {
		return store.Command{}, fmt.Errorf("%w: form kind does not match open editor", ErrValidation)
	}

	cmd, err := e.buildCommand(actorID, form, view)
	if err != nil {
		return store.Command{}, err
	}

	e.state = State{}
	return cmd, nil
}

func (e *Editor) buildCommand(actorID string, form Form, view projection.View) (store.Command, error) {
	switch f := form.(type) {
	case TransactionForm:
		return e.transactionCommand(actorID, f)
	case ExpenseForm:
		return e.expenseCommand(actorID, f)
	case LoanForm:
		return e.loanCommand(actorID, f, view)
	case PaymentForm:
		return paymentCommand(f, view)
	default:
		return store.Command{}, fmt.Errorf("%w: unsupported form %T", ErrValidation, form)
	}
}

func (e *Editor) transactionCommand(actorID string, f TransactionForm) (store.Command, error) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Date == "" || f.Name == "" {
		return store.Command{}, fmt.Errorf("%w: date and name are required", ErrValidation)
	}
	if f.Unit != models.UnitHours && f.Unit != models.UnitDays {
		return store.Command{}, fmt.Errorf("%w: unit must be hours or days", ErrValidation)
	}
	if math.IsNaN(f.Value) || f.Value < 0 {
		return store.Command{}, fmt.Errorf("%w: value must be >= 0", ErrValidation)
	}
	if math.IsNaN(f.Amount) || f.Amount <= 0 {
		return store.Command{}, fmt.Errorf("%w: amount must be > 0", ErrValidation)
	}
	if f.Status != models.StatusPending && f.Status != models.StatusPaid {
		return store.Command{}, fmt.Errorf("%w: status must be pending or paid", ErrValidation)
	}

	fields := map[string]any{
		"type":   models.TypeTransaction,
		"userId": actorID,
		"date":   f.Date,
		"name":   f.Name,
		"unit":   f.Unit,
		"value":  f.Value,
		"amount": f.Amount,
		"status": f.Status,
	}
	return e.writeCommand(fields), nil
}

func (e *Editor) expenseCommand(actorID string, f ExpenseForm) (store.Command, error) {
	f.Description = strings.TrimSpace(f.Description)
	if f.Date == "" || f.Description == "" {
		return store.Command{}, fmt.Errorf("%w: date and description are required", ErrValidation)
	}
	if math.IsNaN(f.Amount) || f.Amount <= 0 {
		return store.Command{}, fmt.Errorf("%w: amount must be > 0", ErrValidation)
	}

	fields := map[string]any{
		"type":        models.TypeExpense,
		"userId":      actorID,
		"date":        f.Date,
		"description": f.Description,
		"amount":      f.Amount,
	}
	return e.writeCommand(fields), nil
}

func (e *Editor) loanCommand(actorID string, f LoanForm, view projection.View) (store.Command, error) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return store.Command{}, fmt.Errorf("%w: loan name is required", ErrValidation)
	}
	if math.IsNaN(f.Taken) || f.Taken <= 0 {
		return store.Command{}, fmt.Errorf("%w: loan principal must be > 0", ErrValidation)
	}

	if e.state.Mode == ModeEdit {
		// 调整本金时待还按当前已还重新推导
		l, ok := view.FindLoan(e.state.TargetID)
		if !ok {
			return store.Command{}, fmt.Errorf("%w: loan no longer exists", ErrValidation)
		}
		return store.Command{Op: store.OpUpdate, ID: e.state.TargetID, Fields: map[string]any{
			"name":    f.Name,
			"taken":   f.Taken,
			"pending": f.Taken - l.Paid,
		}}, nil
	}

	return store.Command{Op: store.OpCreate, Fields: map[string]any{
		"type":     models.TypeLoan,
		"userId":   actorID,
		"name":     f.Name,
		"taken":    f.Taken,
		"paid":     0.0,
		"pending":  f.Taken,
		"payments": []models.Payment{},
	}}, nil
}

// paymentCommand applies a repayment to the loan resolved by name. Note the
// command targets the loan record, not the record that opened the form.
func paymentCommand(f PaymentForm, view projection.View) (store.Command, error) {
	if f.Date == "" {
		return store.Command{}, fmt.Errorf("%w: payment date is required", ErrValidation)
	}
	if math.IsNaN(f.Amount) || f.Amount <= 0 {
		return store.Command{}, fmt.Errorf("%w: payment amount must be > 0", ErrValidation)
	}
	l, ok := view.FindLoanByName(strings.TrimSpace(f.LoanName))
	if !ok {
		return store.Command{}, fmt.Errorf("%w: unknown loan %q", ErrValidation, f.LoanName)
	}

	payments := make([]models.Payment, 0, len(l.Payments)+1)
	payments = append(payments, l.Payments...)
	payments = append(payments, models.Payment{Amount: f.Amount, Date: f.Date})

	return store.Command{Op: store.OpUpdate, ID: l.ID, Fields: map[string]any{
		"paid":     l.Paid + f.Amount,
		"pending":  l.Pending - f.Amount,
		"payments": payments,
	}}, nil
}

func (e *Editor) writeCommand(fields map[string]any) store.Command {
	if e.state.Mode == ModeEdit {
		return store.Command{Op: store.OpUpdate, ID: e.state.TargetID, Fields: fields}
	}
	return store.Command{Op: store.OpCreate, Fields: fields}
}

func emptyForm(kind Kind) Form {
	switch kind {
	case KindTransaction:
		return TransactionForm{Status: models.StatusPending}
	case KindExpense:
		return ExpenseForm{}
	case KindLoan:
		return LoanForm{}
	case KindPayment:
		return PaymentForm{}
	default:
		return nil
	}
}
