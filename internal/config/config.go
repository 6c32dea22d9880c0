package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 永続化バックエンドの種類。
const (
	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
// グローバル変数としては保持せず、必要なコンポーネントに明示的に渡す。
type Config struct {
	// Remote Auth API
	// APIBase が空の場合はローカルフォールバック認証（デモ専用）を使う。
	APIBase string

	// Storage
	StoreBackend string
	StorePath    string
	DatabaseURL  string

	// Server
	ServerPort        string
	CORSAllowedOrigin string

	// Rate Limit（認証エンドポイント、req/min）
	AuthRateLimit int

	// Geolocation
	GeolocationURL     string
	GeolocationFixed   bool
	GeolocationLat     float64
	GeolocationLon     float64
	GeolocationTimeout time.Duration

	// Messaging
	ReplyDelay time.Duration
}

// RemoteAuthEnabled はリモート認証APIが設定されているかを返す。
func (c *Config) RemoteAuthEnabled() bool {
	return c.APIBase != ""
}

// LoadDotEnv は.envファイルが存在すれば環境変数として読み込む。
// 既に設定済みの環境変数は上書きしない。ファイルが無い場合は何もしない。
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load は環境変数からConfigを読み込む。
// 設定値の組み合わせが不正な場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.APIBase = strings.TrimRight(strings.TrimSpace(os.Getenv("CAMPMATCH_API_BASE")), "/")

	cfg.StoreBackend = strings.ToLower(getEnvString("STORE_BACKEND", StoreBackendFile))
	cfg.StorePath = getEnvString("STORE_PATH", "campmatch-data.json")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	switch cfg.StoreBackend {
	case StoreBackendFile, StoreBackendMemory:
	case StoreBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("required environment variables are not set: %v", []string{"DATABASE_URL"})
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND: %q (allowed: file, postgres, memory)", cfg.StoreBackend)
	}

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:5173")
	cfg.AuthRateLimit = getEnvInt("AUTH_RATE_LIMIT", 10)

	cfg.GeolocationURL = os.Getenv("GEOLOCATION_URL")
	cfg.GeolocationTimeout = getEnvDuration("GEOLOCATION_TIMEOUT", 8*time.Second)

	latRaw, lonRaw := os.Getenv("GEOLOCATION_LAT"), os.Getenv("GEOLOCATION_LON")
	if latRaw != "" || lonRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lon, lonErr := strconv.ParseFloat(lonRaw, 64)
		if latErr != nil || lonErr != nil {
			return nil, fmt.Errorf("GEOLOCATION_LAT and GEOLOCATION_LON must both be set to numbers")
		}
		cfg.GeolocationFixed = true
		cfg.GeolocationLat = lat
		cfg.GeolocationLon = lon
	}

	cfg.ReplyDelay = getEnvDuration("REPLY_DELAY", 800*time.Millisecond)

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
