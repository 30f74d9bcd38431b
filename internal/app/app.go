package app

import (
	"context"
	"fmt"
	"time"

	"go_ledger/internal/config"
	"go_ledger/internal/ledger/service"
	"go_ledger/internal/ledger/session"
	"go_ledger/internal/ledger/statement"
	"go_ledger/internal/ledger/store"
	"go_ledger/internal/logger"
	"go_ledger/internal/notify"
)

// App 应用服务容器
// 负责管理所有服务的生命周期（初始化、运行、关闭）
type App struct {
	Store    store.RecordStore
	Sessions session.Provider
	Service  *service.Service
	Rollover *service.RolloverWatcher
	Notifier *notify.Telegram
}

// New 按顺序初始化各个服务；任何一步失败对本次会话都是致命的
func New(ctx context.Context, cfg *config.Config, onUpdate func(service.Update)) (*App, error) {
	app := &App{}

	st, err := newStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init record store failed: %w", err)
	}
	app.Store = st
	logger.L().Infof("Record store initialized (backend=%s)", cfg.StoreBackend)

	sessions, err := newSessionProvider(ctx, cfg)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("init session provider failed: %w", err)
	}
	app.Sessions = sessions

	app.Service = service.New(st, onUpdate)

	if cfg.Telegram.DailyPushEnabled && cfg.Telegram.Token != "" {
		notifier, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("init telegram notifier failed: %w", err)
		}
		app.Notifier = notifier
		logger.L().Info("Daily summary push enabled")
	}

	app.Rollover = service.NewRolloverWatcher(app.Service, app.pushClosingSummary)

	return app, nil
}

// Run 接入会话事件并启动日期翻转监视
func (a *App) Run() {
	a.Rollover.Start()
	a.Sessions.OnChange(a.Service.HandleSession)
}

// Close 优雅关闭所有服务
func (a *App) Close(ctx context.Context) error {
	if a.Rollover != nil {
		a.Rollover.Stop()
	}
	if a.Store != nil {
		if err := a.Store.Close(ctx); err != nil {
			return fmt.Errorf("close record store failed: %w", err)
		}
	}
	return nil
}

func (a *App) pushClosingSummary(closedDay time.Time) {
	if a.Notifier == nil {
		return
	}
	view := a.Service.View()
	a.Notifier.SendClosingSummary(context.Background(), closedDay, view.Metrics, a.Service.Statement(statement.Weekly))
}

func newStore(ctx context.Context, cfg *config.Config) (store.RecordStore, error) {
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		return store.NewFirestoreStore(ctx, store.FirestoreConfig{
			ProjectID:       cfg.Firestore.ProjectID,
			Collection:      cfg.Firestore.Collection,
			CredentialsFile: cfg.CredentialsFile,
		})
	case config.BackendMongo:
		return store.NewMongoStore(store.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
			Timeout:    cfg.Mongo.Timeout,
		})
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}

func newSessionProvider(ctx context.Context, cfg *config.Config) (session.Provider, error) {
	if cfg.FirebaseIDToken != "" {
		return session.NewFirebase(ctx, cfg.CredentialsFile, cfg.FirebaseIDToken)
	}
	if cfg.OperatorUID == "" {
		return nil, fmt.Errorf("either FIREBASE_ID_TOKEN or OPERATOR_UID must be set")
	}
	return session.NewStatic(cfg.OperatorUID), nil
}
