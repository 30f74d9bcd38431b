package service

import (
	"context"
	"sync"
	"time"

	"go_ledger/internal/ledger/editor"
	"go_ledger/internal/ledger/models"
	"go_ledger/internal/ledger/projection"
	"go_ledger/internal/ledger/statement"
	"go_ledger/internal/ledger/store"
	"go_ledger/internal/logger"
)

// Update 推送给渲染层的一次完整状态：分区 + 指标 + 编辑器状态
type Update struct {
	View   projection.View
	Editor editor.State
}

// Service wires the session, the record store subscription and the pure
// engines together. All shared state (last snapshot, projection, editor) is
// replaced wholesale on each event; writes go fire-and-forget to the store
// and come back through the next snapshot, never as local mutation.
type Service struct {
	store    store.RecordStore
	onUpdate func(Update)
	now      func() time.Time

	mu        sync.Mutex
	actorID   string
	snapshot  []models.Record
	view      projection.View
	editor    *editor.Editor
	cancelSub context.CancelFunc
}

// New 创建账本服务；onUpdate 可为 nil（仅查询用途）
func New(st store.RecordStore, onUpdate func(Update)) *Service {
	return &Service{
		store:    st,
		onUpdate: onUpdate,
		now:      time.Now,
		editor:   editor.New(),
	}
}

// HandleSession reacts to a sign-in/sign-out event: tears down any previous
// subscription and projection, then subscribes for the new actor. An empty
// actorID means signed out.
func (s *Service) HandleSession(actorID string) {
	s.mu.Lock()
	if s.cancelSub != nil {
		s.cancelSub()
		s.cancelSub = nil
	}
	s.actorID = actorID
	s.snapshot = nil
	s.view = projection.View{}
	s.editor = editor.New()

	var subCtx context.Context
	if actorID != "" {
		subCtx, s.cancelSub = context.WithCancel(context.Background())
	}
	u := s.updateLocked()
	s.mu.Unlock()

	s.emit(u)

	if subCtx == nil {
		logger.L().Info("Session ended, record subscription torn down")
		return
	}

	logger.L().Infof("Session started for actor %s, subscribing to records", actorID)
	if err := s.store.Subscribe(subCtx, s.handleSnapshot); err != nil {
		logger.L().Errorf("Failed to subscribe to record store: %v", err)
	}
}

// handleSnapshot 每次全量快照整体替换投影
func (s *Service) handleSnapshot(records []models.Record) {
	s.mu.Lock()
	s.snapshot = records
	s.reprojectLocked()
	u := s.updateLocked()
	s.mu.Unlock()

	s.emit(u)
}

// Recompute re-derives the projection from the last snapshot without new
// data, so "today's revenue" stays correct across a date rollover.
func (s *Service) Recompute() {
	s.mu.Lock()
	s.reprojectLocked()
	u := s.updateLocked()
	s.mu.Unlock()

	s.emit(u)
}

func (s *Service) reprojectLocked() {
	s.view = projection.Project(s.snapshot, s.actorID, s.today())
}

func (s *Service) today() string {
	return s.now().Format(models.DateLayout)
}

// View 返回当前投影
func (s *Service) View() projection.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// EditorState 返回当前编辑器状态
func (s *Service) EditorState() editor.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.State()
}

// Statement 对当前分区计算对账单；每次调用重算，不缓存
func (s *Service) Statement(kind statement.Kind) statement.Statement {
	s.mu.Lock()
	view := s.view
	s.mu.Unlock()
	return statement.Build(kind, s.now(), view)
}

// OpenCreate 打开指定种类的新建表单
func (s *Service) OpenCreate(kind editor.Kind) {
	s.mu.Lock()
	s.editor.OpenCreate(kind)
	u := s.updateLocked()
	s.mu.Unlock()

	s.emit(u)
}

// OpenEdit 打开已有记录的编辑表单；记录不存在时静默保持关闭
func (s *Service) OpenEdit(id string) {
	s.mu.Lock()
	opened := s.editor.OpenEdit(id, s.view)
	u := s.updateLocked()
	s.mu.Unlock()

	if !opened {
		logger.L().Debugf("Edit requested for unknown record %s, ignoring", id)
		return
	}
	s.emit(u)
}

// CloseEditor 取消编辑
func (s *Service) CloseEditor() {
	s.mu.Lock()
	s.editor.Close()
	u := s.updateLocked()
	s.mu.Unlock()

	s.emit(u)
}

// SubmitEditor validates the form and issues the resulting command to the
// store. Validation errors leave the editor open for correction; store
// failures are reported but change no local state, the next snapshot is the
// source of truth either way.
func (s *Service) SubmitEditor(ctx context.Context, form editor.Form) error {
	s.mu.Lock()
	cmd, err := s.editor.Submit(s.actorID, form, s.view)
	u := s.updateLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.emit(u)

	if err := store.Apply(ctx, s.store, cmd); err != nil {
		logger.L().Errorf("Record store write failed: %v", err)
		return err
	}
	return nil
}

// ToggleStatus flips a transaction between pending and paid. An id that no
// longer resolves is ignored, same stale-identifier guard as editing.
func (s *Service) ToggleStatus(ctx context.Context, id string) error {
	s.mu.Lock()
	t, ok := s.view.FindTransaction(id)
	s.mu.Unlock()

	if !ok {
		logger.L().Debugf("Status toggle requested for unknown transaction %s, ignoring", id)
		return nil
	}

	next := models.StatusPaid
	if t.IsPaid() {
		next = models.StatusPending
	}
	if err := s.store.Update(ctx, id, map[string]any{"status": next}); err != nil {
		logger.L().Errorf("Failed to toggle status of %s: %v", id, err)
		return err
	}
	return nil
}

// DeleteRecord 删除记录；删除前的确认交给调用方
func (s *Service) DeleteRecord(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		logger.L().Errorf("Failed to delete record %s: %v", id, err)
		return err
	}
	return nil
}

func (s *Service) updateLocked() Update {
	return Update{View: s.view, Editor: s.editor.State()}
}

func (s *Service) emit(u Update) {
	if s.onUpdate != nil {
		s.onUpdate(u)
	}
}
