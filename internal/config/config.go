package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// 记录存储后端
const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
	BackendMemory    = "memory"
)

// Config 应用程序配置
type Config struct {
	StoreBackend    string // 记录存储后端: firestore/mongo/memory
	OperatorUID     string // 固定操作员 UID（无 token 时使用）
	FirebaseIDToken string // Firebase ID token（优先于 OperatorUID）
	CredentialsFile string // Google 服务账号凭证文件路径
	Firestore       FirestoreConfig
	Mongo           MongoConfig
	Telegram        TelegramConfig
}

// FirestoreConfig Firestore 连接配置
type FirestoreConfig struct {
	ProjectID  string
	Collection string
}

// MongoConfig MongoDB 连接配置
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// TelegramConfig 每日结算推送配置
type TelegramConfig struct {
	Token            string
	ChatID           int64
	DailyPushEnabled bool
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{
		StoreBackend:    strings.TrimSpace(os.Getenv("STORE_BACKEND")),
		OperatorUID:     strings.TrimSpace(os.Getenv("OPERATOR_UID")),
		FirebaseIDToken: strings.TrimSpace(os.Getenv("FIREBASE_ID_TOKEN")),
		CredentialsFile: strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
	}

	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendFirestore
	}
	switch cfg.StoreBackend {
	case BackendFirestore, BackendMongo, BackendMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q, want firestore, mongo or memory", cfg.StoreBackend)
	}

	cfg.Firestore = FirestoreConfig{
		ProjectID:  strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID")),
		Collection: os.Getenv("FIRESTORE_COLLECTION"),
	}
	if cfg.Firestore.Collection == "" {
		cfg.Firestore.Collection = "apna gadi 2" // 原始账本集合名
	}

	mongoCfg, err := loadMongoConfig()
	if err != nil {
		return nil, err
	}
	cfg.Mongo = mongoCfg

	telegramCfg, err := loadTelegramConfig()
	if err != nil {
		return nil, err
	}
	cfg.Telegram = telegramCfg

	return cfg, nil
}

func loadMongoConfig() (MongoConfig, error) {
	cfg := MongoConfig{
		URI:        strings.TrimSpace(os.Getenv("MONGO_URI")),
		Database:   strings.TrimSpace(os.Getenv("MONGO_DB_NAME")),
		Collection: strings.TrimSpace(os.Getenv("MONGO_COLLECTION")),
		Timeout:    10 * time.Second,
	}

	if cfg.Database == "" {
		cfg.Database = "go_ledger"
	}
	if cfg.Collection == "" {
		cfg.Collection = "records"
	}

	if timeoutStr := strings.TrimSpace(os.Getenv("MONGO_TIMEOUT_SECONDS")); timeoutStr != "" {
		seconds, err := strconv.Atoi(timeoutStr)
		if err != nil || seconds <= 0 {
			return MongoConfig{}, fmt.Errorf("invalid MONGO_TIMEOUT_SECONDS: %s", timeoutStr)
		}
		cfg.Timeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

func loadTelegramConfig() (TelegramConfig, error) {
	cfg := TelegramConfig{
		Token:            strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DailyPushEnabled: true,
	}

	if chatIDStr := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); chatIDStr != "" {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return TelegramConfig{}, fmt.Errorf("failed to parse TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.ChatID = chatID
	}

	if enabled := strings.TrimSpace(os.Getenv("DAILY_PUSH_ENABLED")); enabled != "" {
		value, err := strconv.ParseBool(enabled)
		if err != nil {
			return TelegramConfig{}, fmt.Errorf("failed to parse DAILY_PUSH_ENABLED: %w", err)
		}
		cfg.DailyPushEnabled = value
	}

	return cfg, nil
}
