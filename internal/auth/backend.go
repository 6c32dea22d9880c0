// Package auth はログイン・登録・ログアウトとセッション管理を提供する。
//
// 認証先はリモートAPIとローカルフォールバックの2種類があり、
// 起動時の設定からNewBackendで一度だけ選択する。
package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/campmatch/internal/config"
	"github.com/hitoshi/campmatch/internal/model"
	"github.com/hitoshi/campmatch/internal/storage"
)

// 認証モード。メトリクスのラベルにも使う。
const (
	ModeRemote = "remote"
	ModeLocal  = "local"
)

// Backend は認証処理の実装を抽象化する。
type Backend interface {
	// Mode は認証モード（ModeRemote / ModeLocal）を返す。
	Mode() string
	// Login は資格情報を検証し、新しいセッションを返す。
	Login(ctx context.Context, email, password string) (*model.Session, error)
	// Register はユーザーを登録し、続けてログインしたセッションを返す。
	Register(ctx context.Context, email, password string) (*model.Session, error)
}

// defaultRemoteTimeout はリモート認証APIへのリクエストタイムアウト。
const defaultRemoteTimeout = 10 * time.Second

// NewBackend は設定に応じたBackendを生成する。
// APIベースURLが設定されていればリモート、無ければローカルフォールバックを使う。
// clientがnilの場合はタイムアウト付きのデフォルトクライアントを使う。
func NewBackend(cfg *config.Config, users *storage.Binding[[]model.Credential], client *http.Client) Backend {
	if cfg.RemoteAuthEnabled() {
		if client == nil {
			client = &http.Client{Timeout: defaultRemoteTimeout}
		}
		return NewRemoteBackend(cfg.APIBase, client)
	}
	return NewLocalBackend(users)
}
