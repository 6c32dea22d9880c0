// Package handler は表示層向けのJSON APIを提供する。
package handler

import (
	"context"

	"github.com/hitoshi/campmatch/internal/geo"
	"github.com/hitoshi/campmatch/internal/meetup"
	"github.com/hitoshi/campmatch/internal/messaging"
	"github.com/hitoshi/campmatch/internal/model"
	"github.com/hitoshi/campmatch/internal/profile"
	"github.com/hitoshi/campmatch/internal/theme"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Mode() string
	Login(ctx context.Context, email, password string) (*model.Session, error)
	Register(ctx context.Context, email, password string) (*model.Session, error)
	Logout(ctx context.Context)
	Session(ctx context.Context) *model.Session
}

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	Get(ctx context.Context) model.Profile
	Update(ctx context.Context, draft model.Profile) (model.Profile, error)
	AddFavorite(ctx context.Context, label string) (model.Profile, error)
	RemoveFavorite(ctx context.Context, index int) (model.Profile, error)
	Locate(ctx context.Context) (model.Profile, error)
	Favorites(ctx context.Context) []profile.FavoriteView
}

// MessagingServiceInterface は会話ハンドラーが必要とするサービスインターフェース。
type MessagingServiceInterface interface {
	Threads() []messaging.ThreadSummary
	Thread(matchID string) ([]model.Message, error)
	Send(matchID, text string) (model.Message, error)
	Abandon(matchID string) error
}

// MeetupServiceInterface はミートアップハンドラーが必要とするサービスインターフェース。
type MeetupServiceInterface interface {
	Draft() model.EventDraft
	Create(ctx context.Context, draft model.EventDraft) (model.Event, error)
	ToggleVisibility(ctx context.Context, id string) (model.Event, error)
	Remove(ctx context.Context, id string) error
	List(ctx context.Context, from *geo.Point) []meetup.EventView
}

// ThemeServiceInterface はテーマハンドラーが必要とするサービスインターフェース。
type ThemeServiceInterface interface {
	Get(ctx context.Context) theme.Theme
	Toggle(ctx context.Context) theme.Theme
}

// Services は現在のサービス群を返す。
// ローカルデータの消去後はサービスが作り直されるため、ハンドラーはリクエストごとに取得する。
type Services interface {
	Auth() AuthServiceInterface
	Profile() ProfileServiceInterface
	Messaging() MessagingServiceInterface
	Meetups() MeetupServiceInterface
	Theme() ThemeServiceInterface
}

// Resetter はローカルデータを全て消去し、サービスを初期状態で作り直す。
type Resetter interface {
	Reset(ctx context.Context) error
}

// HealthChecker は永続化先の疎通を確認する。
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}
