package auth

import (
	"context"

	"github.com/hitoshi/campmatch/internal/model"
	"github.com/hitoshi/campmatch/internal/storage"
)

// DemoToken はローカルフォールバックで発行する固定のトークン。
// 実際の認証トークンではない。
const DemoToken = "demo-token"

// LocalBackend はローカルに保存した登録情報で認証するBackend。
//
// デモ専用。パスワードは平文のまま保存・比較される。
// 本番の認証経路として使用したり、この比較ロジックを他へ流用したりしないこと。
type LocalBackend struct {
	users *storage.Binding[[]model.Credential]
}

// NewLocalBackend はLocalBackendを生成する。
func NewLocalBackend(users *storage.Binding[[]model.Credential]) *LocalBackend {
	return &LocalBackend{users: users}
}

// Mode はModeLocalを返す。
func (b *LocalBackend) Mode() string {
	return ModeLocal
}

// Login は登録済みリストを線形探索し、メールとパスワードの両方が完全一致すればセッションを返す。
func (b *LocalBackend) Login(ctx context.Context, email, password string) (*model.Session, error) {
	for _, u := range b.users.Get(ctx) {
		if u.Email == email && u.Password == password {
			return &model.Session{Token: DemoToken, Email: email}, nil
		}
	}
	return nil, model.NewInvalidCredentialsError()
}

// Register はメールアドレスが未使用なら登録情報を追加し、続けてログインする。
// 既に使われている場合はリストを変更せずにエラーを返す。
func (b *LocalBackend) Register(ctx context.Context, email, password string) (*model.Session, error) {
	_, err := b.users.Update(ctx, func(users []model.Credential) ([]model.Credential, error) {
		for _, u := range users {
			if u.Email == email {
				return nil, model.NewEmailInUseError()
			}
		}
		next := make([]model.Credential, 0, len(users)+1)
		next = append(next, users...)
		return append(next, model.Credential{Email: email, Password: password}), nil
	})
	if err != nil {
		return nil, err
	}
	return b.Login(ctx, email, password)
}

// compile-time interface check
var _ Backend = (*LocalBackend)(nil)
