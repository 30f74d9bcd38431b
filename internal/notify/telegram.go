package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"

	"go_ledger/internal/ledger/models"
	"go_ledger/internal/ledger/projection"
	"go_ledger/internal/ledger/statement"
	"go_ledger/internal/logger"
)

// Telegram 每日结算推送：日期翻转后把前一天的汇总发给操作员
type Telegram struct {
	bot    *bot.Bot
	chatID int64
}

// NewTelegram 初始化推送客户端
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token cannot be empty")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id cannot be empty")
	}

	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	return &Telegram{bot: b, chatID: chatID}, nil
}

// SendClosingSummary 推送指定日期的收盘汇总
func (t *Telegram) SendClosingSummary(ctx context.Context, day time.Time, m projection.Metrics, st statement.Statement) {
	msg := buildClosingSummary(day, m, st)

	sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if _, err := t.bot.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   msg,
	}); err != nil {
		logger.L().Errorf("Daily summary push failed: %v", err)
		return
	}
	logger.L().Infof("Daily summary pushed for %s", day.Format(models.DateLayout))
}

func buildClosingSummary(day time.Time, m projection.Metrics, st statement.Statement) string {
	return fmt.Sprintf(
		"Closing summary for %s\nPending: ₹%s\nCompany total: ₹%s\nWeekly revenue: ₹%s\nWeekly expenses: ₹%s\nWeekly net: ₹%s",
		day.Format(models.DateLayout),
		m.PendingAmount.StringFixed(2),
		m.CompanyTotal.StringFixed(2),
		st.Revenue.StringFixed(2),
		st.Expenses.StringFixed(2),
		st.Net.StringFixed(2),
	)
}
