package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go_ledger/internal/app"
	"go_ledger/internal/config"
	"go_ledger/internal/ledger/service"
	"go_ledger/internal/logger"
	"go_ledger/internal/view"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatalf("配置加载失败: %v", err)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, renderUpdate)
	if err != nil {
		logger.L().Fatalf("初始化失败: %v", err)
	}
	defer func() {
		if err := a.Close(ctx); err != nil {
			logger.L().Errorf("关闭失败: %v", err)
		}
	}()

	a.Run()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.L().Info("Shutting down")
}

// renderUpdate 每次状态变化重绘三张表和指标条
func renderUpdate(u service.Update) {
	fmt.Println(view.RenderMetrics(u.View.Metrics))
	fmt.Println(view.RenderTransactions(u.View.Transactions))
	fmt.Println(view.RenderExpenses(u.View.Expenses))
	if len(u.View.Loans) > 0 {
		fmt.Println(view.RenderLoans(u.View.Loans))
	}
}
