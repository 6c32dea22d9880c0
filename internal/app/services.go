package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/hitoshi/campmatch/internal/auth"
	"github.com/hitoshi/campmatch/internal/config"
	"github.com/hitoshi/campmatch/internal/geolocation"
	"github.com/hitoshi/campmatch/internal/handler"
	"github.com/hitoshi/campmatch/internal/meetup"
	"github.com/hitoshi/campmatch/internal/messaging"
	"github.com/hitoshi/campmatch/internal/metrics"
	"github.com/hitoshi/campmatch/internal/model"
	"github.com/hitoshi/campmatch/internal/profile"
	"github.com/hitoshi/campmatch/internal/security"
	"github.com/hitoshi/campmatch/internal/storage"
	"github.com/hitoshi/campmatch/internal/theme"
)

// Pinger は永続化先の疎通確認。*sql.DBが実装する。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps はAppの構築に必要な外部依存。
type Deps struct {
	Store   storage.Store
	Metrics metrics.MetricsCollector
	Logger  *slog.Logger
	// Locator がnilの場合、位置情報は非対応として扱う。
	Locator geolocation.Locator
	// AuthClient はリモート認証APIへのHTTPクライアント。nilの場合はデフォルト。
	AuthClient *http.Client
	// Pinger がnilの場合、ヘルスチェックは常に成功する。
	Pinger Pinger
}

// App は1つのStoreから構築した全サービスを束ねる。
// Resetで全データを消去すると、バインディングとサービスを初期状態から作り直す。
type App struct {
	cfg       *config.Config
	store     storage.Store
	metrics   metrics.MetricsCollector
	logger    *slog.Logger
	sanitizer security.TextSanitizer
	locator   geolocation.Locator
	client    *http.Client
	pinger    Pinger

	mu      sync.RWMutex
	current *serviceSet
}

// serviceSet は同じ世代のバインディングを共有するサービス群。
type serviceSet struct {
	auth      *auth.Gateway
	profile   *profile.Service
	messaging *messaging.Service
	meetups   *meetup.Service
	theme     *theme.Service

	// bindings はReset時にStoreから切り離す対象。
	bindings []detachable
}

type detachable interface {
	Detach()
	Reattach()
}

// New はAppを生成する。
func New(cfg *config.Config, deps Deps) *App {
	m := deps.Metrics
	if m == nil {
		m = metrics.NopCollector{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		cfg:       cfg,
		store:     deps.Store,
		metrics:   m,
		logger:    logger,
		sanitizer: security.NewTextSanitizer(),
		locator:   deps.Locator,
		client:    deps.AuthClient,
		pinger:    deps.Pinger,
	}
	a.current = a.build()
	return a
}

// build は新しいバインディングでサービス群を構築する。
// バインディングは初回アクセスまでStoreを読まない。
func (a *App) build() *serviceSet {
	store := a.store

	users := storage.NewBinding(store, storage.KeyUsers, []model.Credential{}, a.logger)
	session := storage.NewBinding[*model.Session](store, storage.KeySession, nil, a.logger)
	profileBinding := storage.NewBinding(store, storage.KeyProfile, model.DefaultProfile(), a.logger)
	events := storage.NewBinding(store, storage.KeyEvents, []model.Event{}, a.logger)
	themeBinding := storage.NewBinding(store, storage.KeyTheme, theme.Default, a.logger)

	backend := auth.NewBackend(a.cfg, users, a.client)

	return &serviceSet{
		auth:      auth.NewGateway(backend, session, a.metrics),
		profile:   profile.NewService(profileBinding, a.sanitizer, a.locator, a.cfg.GeolocationTimeout, a.metrics),
		messaging: messaging.NewService(a.cfg.ReplyDelay, a.sanitizer, a.metrics, a.logger),
		meetups:   meetup.NewService(events, a.sanitizer),
		theme:     theme.NewService(themeBinding),
		bindings:  []detachable{users, session, profileBinding, events, themeBinding},
	}
}

func (a *App) services() *serviceSet {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Auth は現在の認証ゲートウェイを返す。
func (a *App) Auth() handler.AuthServiceInterface { return a.services().auth }

// Profile は現在のプロフィールサービスを返す。
func (a *App) Profile() handler.ProfileServiceInterface { return a.services().profile }

// Messaging は現在の会話サービスを返す。
func (a *App) Messaging() handler.MessagingServiceInterface { return a.services().messaging }

// Meetups は現在のミートアップサービスを返す。
func (a *App) Meetups() handler.MeetupServiceInterface { return a.services().meetups }

// Theme は現在のテーマサービスを返す。
func (a *App) Theme() handler.ThemeServiceInterface { return a.services().theme }

// Reset は全キーを一括で消去し、サービスを初期状態から作り直す。
// 古いバインディングのメモリ上の値は再同期せず、新しいバインディングに置き換える。
// 消去前に古いバインディングをStoreから切り離し、処理中のリクエストが消去後にキーを書き戻さないようにする。
// 消去に失敗した場合は切り離しを戻し、現在のサービスをそのまま使い続ける。
func (a *App) Reset(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	old := a.current
	for _, b := range old.bindings {
		b.Detach()
	}

	if err := a.store.Clear(ctx); err != nil {
		for _, b := range old.bindings {
			b.Reattach()
		}
		return fmt.Errorf("failed to clear local data: %w", err)
	}

	a.current = a.build()
	old.messaging.Close()

	a.logger.Info("local data cleared, application reloaded")
	return nil
}

// CheckHealth は永続化先の疎通を確認する。
func (a *App) CheckHealth(ctx context.Context) error {
	if a.pinger == nil {
		return nil
	}
	return a.pinger.PingContext(ctx)
}

// Close は返信待ちのタスクを全てキャンセルする。
func (a *App) Close() {
	a.services().messaging.Close()
}

// compile-time interface check
var (
	_ handler.Services      = (*App)(nil)
	_ handler.Resetter      = (*App)(nil)
	_ handler.HealthChecker = (*App)(nil)
)
