// Package theme はアプリ全体の表示テーマを管理する。
// テーマはグローバルな状態として持たず、APIを通じて表示層に明示的に渡す。
package theme

import (
	"context"

	"github.com/hitoshi/campmatch/internal/storage"
)

// Theme は表示テーマ。
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Default は初回起動時のテーマ。
const Default = Dark

// Toggle は反対のテーマを返す。未知の値はDarkとみなす。
func (t Theme) Toggle() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Service はテーマの永続化キーを所有する。
type Service struct {
	binding *storage.Binding[Theme]
}

// NewService はServiceを生成する。
func NewService(binding *storage.Binding[Theme]) *Service {
	return &Service{binding: binding}
}

// Get は現在のテーマを返す。
func (s *Service) Get(ctx context.Context) Theme {
	t := s.binding.Get(ctx)
	if t != Dark && t != Light {
		return Default
	}
	return t
}

// Toggle はテーマを切り替え、新しいテーマを返す。
func (s *Service) Toggle(ctx context.Context) Theme {
	next, _ := s.binding.Update(ctx, func(cur Theme) (Theme, error) {
		return cur.Toggle(), nil
	})
	return next
}
