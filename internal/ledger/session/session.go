package session

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"go_ledger/internal/logger"
)

// Provider 报告当前操作员身份，空字符串表示未登录。
// 身份变化时依次回调；回调负责建立或撤销数据订阅。
type Provider interface {
	OnChange(fn func(actorID string))
}

// Static 固定单操作员的会话提供方（本地或自托管部署）
type Static struct {
	uid string
}

// NewStatic 创建固定身份的会话提供方
func NewStatic(uid string) *Static {
	return &Static{uid: uid}
}

// OnChange 立即上报配置的身份
func (s *Static) OnChange(fn func(actorID string)) {
	fn(s.uid)
}

// Firebase verifies a Firebase ID token and reports its UID, mirroring the
// hosted auth flow the ledger originally delegated sign-in to.
type Firebase struct {
	auth  *auth.Client
	token string
}

// NewFirebase 初始化 Firebase Auth 客户端
func NewFirebase(ctx context.Context, credentialsFile, idToken string) (*Firebase, error) {
	if idToken == "" {
		return nil, fmt.Errorf("firebase ID token cannot be empty")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init Firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init Firebase auth client: %w", err)
	}

	return &Firebase{auth: client, token: idToken}, nil
}

// OnChange 校验 token 并上报其 UID；校验失败按未登录处理
func (f *Firebase) OnChange(fn func(actorID string)) {
	tok, err := f.auth.VerifyIDToken(context.Background(), f.token)
	if err != nil {
		logger.L().Errorf("Firebase token verification failed: %v", err)
		fn("")
		return
	}
	fn(tok.UID)
}
