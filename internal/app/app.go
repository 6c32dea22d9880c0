// Package app はアプリケーションの初期化、依存関係のワイヤリング、サブコマンドの実行を行う。
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/campmatch/internal/config"
	"github.com/hitoshi/campmatch/internal/database"
	"github.com/hitoshi/campmatch/internal/geo"
	"github.com/hitoshi/campmatch/internal/geolocation"
	"github.com/hitoshi/campmatch/internal/handler"
	"github.com/hitoshi/campmatch/internal/logger"
	"github.com/hitoshi/campmatch/internal/metrics"
	"github.com/hitoshi/campmatch/internal/middleware"
	"github.com/hitoshi/campmatch/internal/security"
	"github.com/hitoshi/campmatch/internal/storage"
)

// Init はアプリケーションの初期化を行う。
// .envファイルと環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. .envファイル（存在する場合のみ）
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// 3. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)
	if cmd == CommandHelp {
		writeUsage(w)
		return nil
	}

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("store_backend", cfg.StoreBackend),
		slog.Bool("remote_auth", cfg.RemoteAuthEnabled()),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	case CommandReset:
		return runReset(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// Storeを開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. メトリクス
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// 2. 永続化ストア
	store, db, err := openStore(context.Background(), cfg, collector)
	if err != nil {
		return err
	}
	var pinger Pinger
	if db != nil {
		defer db.Close()
		pinger = db
	}

	// 3. 位置情報プロバイダ
	locator, err := newLocator(cfg, security.NewProviderGuard())
	if err != nil {
		return err
	}

	// 4. サービス群
	application := New(cfg, Deps{
		Store:   store,
		Metrics: collector,
		Logger:  slog.Default(),
		Locator: locator,
		Pinger:  pinger,
	})
	defer application.Close()

	// 5. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(middleware.AuthRateLimiterConfig(cfg.AuthRateLimit))
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Services:          application,
		Resetter:          application,
		Health:            application,
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		MetricsHandler:    metrics.Handler(reg),
	})

	// 6. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server listen error: %w", err)
	case <-stop:
	}
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// openStore は設定に応じた永続化ストアを開く。
// postgresの場合はマイグレーションを適用してから接続し、*sql.DBも返す。
// 返すStoreは失敗をメトリクスに記録するデコレータで包まれている。
func openStore(ctx context.Context, cfg *config.Config, recorder storage.FailureRecorder) (storage.Store, *sql.DB, error) {
	var (
		inner storage.Store
		db    *sql.DB
	)

	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
		conn, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("database connection established")
		db = conn
		inner = storage.NewPostgresStore(conn)
	case config.StoreBackendMemory:
		slog.Warn("using in-memory store, data will not survive a restart")
		inner = storage.NewMemoryStore()
	default:
		fs := storage.NewFileStore(cfg.StorePath)
		slog.Info("using file store", slog.String("path", fs.Path()))
		inner = fs
	}

	return storage.NewObservedStore(inner, recorder), db, nil
}

// newLocator は設定に応じた位置情報プロバイダを返す。
// URLが設定されていればSSRF対策済みのクライアントでHTTPプロバイダを使い、
// 固定座標があればそれを返す。どちらも無ければnil（非対応）。
func newLocator(cfg *config.Config, guard security.ProviderGuard) (geolocation.Locator, error) {
	if cfg.GeolocationURL != "" {
		if err := guard.ValidateURL(cfg.GeolocationURL); err != nil {
			return nil, fmt.Errorf("invalid GEOLOCATION_URL: %w", err)
		}
		return geolocation.NewHTTPLocator(cfg.GeolocationURL, guard.NewSafeClient(cfg.GeolocationTimeout)), nil
	}
	if cfg.GeolocationFixed {
		return geolocation.StaticLocator{Point: geo.Point{Lat: cfg.GeolocationLat, Lon: cfg.GeolocationLon}}, nil
	}
	return nil, nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	if cfg.StoreBackend != config.StoreBackendPostgres {
		return fmt.Errorf("migrate requires STORE_BACKEND=postgres (current: %s)", cfg.StoreBackend)
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, _, err := database.SchemaVersion(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty", version)
	}

	slog.Info("database migrations completed successfully", slog.Uint64("version", uint64(version)))
	return nil
}

// runReset はサーバーを起動せずにローカルデータを全て消去する。
func runReset(cfg *config.Config) error {
	store, db, err := openStore(context.Background(), cfg, metrics.NopCollector{})
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	slog.Info("local data cleared", slog.String("store_backend", cfg.StoreBackend))
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
