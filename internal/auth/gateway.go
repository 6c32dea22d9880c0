package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hitoshi/campmatch/internal/metrics"
	"github.com/hitoshi/campmatch/internal/model"
	"github.com/hitoshi/campmatch/internal/storage"
)

// Gateway はセッションの唯一の所有者。
// Backendでの認証結果をセッションとして保存し、ログアウトで破棄する。
// 失敗した呼び出しはセッションを変更しない。リトライは行わない。
type Gateway struct {
	backend Backend
	session *storage.Binding[*model.Session]
	metrics metrics.MetricsCollector
}

// NewGateway はGatewayを生成する。
func NewGateway(backend Backend, session *storage.Binding[*model.Session], m metrics.MetricsCollector) *Gateway {
	if m == nil {
		m = metrics.NopCollector{}
	}
	return &Gateway{backend: backend, session: session, metrics: m}
}

// Mode は使用中のBackendの認証モードを返す。
func (g *Gateway) Mode() string {
	return g.backend.Mode()
}

// Login はログインし、成功した場合にセッションを保存する。
func (g *Gateway) Login(ctx context.Context, email, password string) (*model.Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	sess, err := g.backend.Login(ctx, email, password)
	g.metrics.RecordAuthAttempt(g.backend.Mode(), "login", err == nil)
	if err != nil {
		return nil, err
	}

	g.session.Set(ctx, sess)
	slog.Info("user logged in", slog.String("mode", g.backend.Mode()), slog.String("email", sess.Email))
	return sess, nil
}

// Register は登録とログインを行い、成功した場合にセッションを保存する。
func (g *Gateway) Register(ctx context.Context, email, password string) (*model.Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	sess, err := g.backend.Register(ctx, email, password)
	g.metrics.RecordAuthAttempt(g.backend.Mode(), "register", err == nil)
	if err != nil {
		return nil, err
	}

	g.session.Set(ctx, sess)
	slog.Info("user registered", slog.String("mode", g.backend.Mode()), slog.String("email", sess.Email))
	return sess, nil
}

// Logout はセッションを破棄する。どちらのモードでもネットワーク通信は行わない。
func (g *Gateway) Logout(ctx context.Context) {
	g.session.Set(ctx, nil)
}

// Session は現在のセッションを返す。ログアウト状態ではnil。
func (g *Gateway) Session(ctx context.Context) *model.Session {
	return g.session.Get(ctx)
}

// validateCredentials はフォームの必須入力を検証する。
// 空白のみのメールは未入力として扱うが、値そのものは書き換えない。照合は入力どおりに行う。
func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return model.NewValidationError("Email et mot de passe requis")
	}
	return nil
}
