package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/campmatch/internal/config"
	"github.com/hitoshi/campmatch/internal/geo"
	"github.com/hitoshi/campmatch/internal/geolocation"
	"github.com/hitoshi/campmatch/internal/model"
	"github.com/hitoshi/campmatch/internal/storage"
	"github.com/hitoshi/campmatch/internal/theme"
)

func newTestConfig() *config.Config {
	return &config.Config{
		StoreBackend:       config.StoreBackendMemory,
		GeolocationTimeout: time.Second,
		ReplyDelay:         time.Hour,
	}
}

// failingClearStore はClearだけ失敗するStore。
type failingClearStore struct {
	*storage.MemoryStore
}

func (s failingClearStore) Clear(context.Context) error {
	return errors.New("disk full")
}

type mockPinger struct {
	err error
}

func (p mockPinger) PingContext(context.Context) error { return p.err }

func TestApp_ServicesShareStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	a := New(newTestConfig(), Deps{Store: store})
	defer a.Close()

	if got := a.Theme().Toggle(ctx); got != theme.Light {
		t.Fatalf("expected light, got %q", got)
	}

	raw, ok, err := store.Get(ctx, storage.KeyTheme)
	if err != nil || !ok {
		t.Fatalf("theme should be persisted: ok=%v err=%v", ok, err)
	}
	if string(raw) != `"light"` {
		t.Errorf("unexpected persisted theme %s", raw)
	}
}

func TestApp_UsesLocalAuthWithoutAPIBase(t *testing.T) {
	a := New(newTestConfig(), Deps{Store: storage.NewMemoryStore()})
	defer a.Close()

	if mode := a.Auth().Mode(); mode != "local" {
		t.Errorf("expected local mode, got %q", mode)
	}
}

func TestApp_UsesRemoteAuthWithAPIBase(t *testing.T) {
	cfg := newTestConfig()
	cfg.APIBase = "https://api.example.com"
	a := New(cfg, Deps{Store: storage.NewMemoryStore()})
	defer a.Close()

	if mode := a.Auth().Mode(); mode != "remote" {
		t.Errorf("expected remote mode, got %q", mode)
	}
}

func TestApp_ResetClearsEverything(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	a := New(newTestConfig(), Deps{Store: store})
	defer a.Close()

	if _, err := a.Auth().Register(ctx, "lea@example.com", "secret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	a.Theme().Toggle(ctx)
	if _, err := a.Meetups().Create(ctx, model.EventDraft{
		Title:    "Apéro",
		Campsite: "Camping La Yole (Valras-Plage)",
		Date:     "2026-07-14",
		Time:     "19:00",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := a.Messaging().Send("u1", "Salut"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	oldMessaging := a.Messaging()

	if err := a.Reset(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	for _, key := range storage.AllKeys() {
		if _, ok, _ := store.Get(ctx, key); ok {
			t.Errorf("key %s should be cleared", key)
		}
	}
	if a.Auth().Session(ctx) != nil {
		t.Error("session should be gone after reset")
	}
	if got := a.Theme().Get(ctx); got != theme.Default {
		t.Errorf("theme should be default after reset, got %q", got)
	}
	if got := a.Meetups().List(ctx, nil); len(got) != 0 {
		t.Errorf("events should be empty after reset, got %d", len(got))
	}
	if got := a.Profile().Get(ctx); got.DisplayName != model.DefaultProfile().DisplayName {
		t.Errorf("profile should be default after reset, got %q", got.DisplayName)
	}
	if a.Messaging() == oldMessaging {
		t.Error("messaging should be rebuilt after reset")
	}
	msgs, _ := a.Messaging().Thread("u1")
	if len(msgs) != 3 {
		t.Errorf("conversation u1 should be reseeded with 3 messages, got %d", len(msgs))
	}

	// 登録情報も消えているのでログインできない
	if _, err := a.Auth().Login(ctx, "lea@example.com", "secret"); err == nil {
		t.Error("login should fail after reset")
	}
}

func TestApp_ResetFailureKeepsServices(t *testing.T) {
	ctx := context.Background()
	a := New(newTestConfig(), Deps{Store: failingClearStore{storage.NewMemoryStore()}})
	defer a.Close()

	a.Theme().Toggle(ctx)
	before := a.Theme()

	if err := a.Reset(ctx); err == nil {
		t.Fatal("expected reset error")
	}
	if a.Theme() != before {
		t.Error("services should be kept when clear fails")
	}
	if got := a.Theme().Get(ctx); got != theme.Light {
		t.Errorf("theme should be unchanged, got %q", got)
	}
}

func TestApp_ResetDropsWritesFromStaleServices(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	a := New(newTestConfig(), Deps{Store: store})
	defer a.Close()

	// Reset直前に取得されたサービス（処理中のリクエスト）
	stale := a.Theme()

	if err := a.Reset(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	stale.Toggle(ctx)

	if _, ok, _ := store.Get(ctx, storage.KeyTheme); ok {
		t.Error("stale service must not write back after reset")
	}
	if got := a.Theme().Get(ctx); got != theme.Default {
		t.Errorf("theme after reset = %q, want %q", got, theme.Default)
	}
}

func TestApp_ResetFailureKeepsPersisting(t *testing.T) {
	ctx := context.Background()
	store := failingClearStore{storage.NewMemoryStore()}
	a := New(newTestConfig(), Deps{Store: store})
	defer a.Close()

	if err := a.Reset(ctx); err == nil {
		t.Fatal("expected reset error")
	}
	a.Theme().Toggle(ctx)

	if _, ok, _ := store.Get(ctx, storage.KeyTheme); !ok {
		t.Error("services kept after a failed reset should still persist")
	}
}

func TestApp_LocateUsesInjectedLocator(t *testing.T) {
	ctx := context.Background()
	lyon := geo.Point{Lat: 45.764, Lon: 4.835}
	a := New(newTestConfig(), Deps{
		Store:   storage.NewMemoryStore(),
		Locator: geolocation.StaticLocator{Point: lyon},
	})
	defer a.Close()

	p, err := a.Profile().Locate(ctx)
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	if p.Coords == nil || *p.Coords != lyon {
		t.Errorf("expected coords %+v, got %+v", lyon, p.Coords)
	}
}

func TestApp_LocateWithoutLocator(t *testing.T) {
	a := New(newTestConfig(), Deps{Store: storage.NewMemoryStore()})
	defer a.Close()

	_, err := a.Profile().Locate(context.Background())
	if !model.HasCode(err, model.ErrCodeGeolocationFailed) {
		t.Errorf("expected geolocation failure, got %v", err)
	}
}

func TestApp_CheckHealth(t *testing.T) {
	ctx := context.Background()

	withoutDB := New(newTestConfig(), Deps{Store: storage.NewMemoryStore()})
	defer withoutDB.Close()
	if err := withoutDB.CheckHealth(ctx); err != nil {
		t.Errorf("expected healthy without pinger, got %v", err)
	}

	down := New(newTestConfig(), Deps{Store: storage.NewMemoryStore(), Pinger: mockPinger{err: errors.New("refused")}})
	defer down.Close()
	if err := down.CheckHealth(ctx); err == nil {
		t.Error("expected health error from pinger")
	}
}
