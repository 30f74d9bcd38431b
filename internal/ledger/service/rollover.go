package service

import (
	"context"
	"time"

	"go_ledger/internal/ledger/models"
	"go_ledger/internal/logger"
)

// RolloverWatcher checks once a minute whether the wall-clock date changed
// and forces a metric recomputation when it did, so "today's revenue" resets
// at midnight without waiting for a fresh snapshot. The optional onRollover
// hook receives the day that just closed.
type RolloverWatcher struct {
	svc        *Service
	onRollover func(closedDay time.Time)
	interval   time.Duration
	now        func() time.Time
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewRolloverWatcher 创建日期翻转监视器
func NewRolloverWatcher(svc *Service, onRollover func(closedDay time.Time)) *RolloverWatcher {
	return &RolloverWatcher{
		svc:        svc,
		onRollover: onRollover,
		interval:   time.Minute,
		now:        time.Now,
	}
}

// Start 启动监视循环；重复调用无效果
func (w *RolloverWatcher) Start() {
	if w == nil || w.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(ctx)
	logger.L().Info("Date rollover watcher started")
}

// Stop 停止监视循环并等待退出
func (w *RolloverWatcher) Stop() {
	if w == nil || w.cancel == nil {
		return
	}

	w.cancel()
	<-w.done
	w.cancel = nil
	w.done = nil
	logger.L().Info("Date rollover watcher stopped")
}

func (w *RolloverWatcher) run(ctx context.Context) {
	defer close(w.done)

	current := w.now().Format(models.DateLayout)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if day, changed := w.check(current); changed {
				current = day
			}
		}
	}
}

// check 比较当前日期，翻转时触发重算和回调
func (w *RolloverWatcher) check(current string) (string, bool) {
	now := w.now()
	day := now.Format(models.DateLayout)
	if day == current {
		return current, false
	}

	logger.L().Infof("Date rolled over from %s to %s, recomputing metrics", current, day)
	w.svc.Recompute()

	if w.onRollover != nil {
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		w.onRollover(midnight.AddDate(0, 0, -1))
	}
	return day, true
}
