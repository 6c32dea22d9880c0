// Package geolocation はユーザーの現在位置を1回だけ問い合わせる機能を提供する。
package geolocation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hitoshi/campmatch/internal/geo"
	"github.com/hitoshi/campmatch/internal/model"
)

// DefaultTimeout は位置情報の問い合わせタイムアウト。
const DefaultTimeout = 8 * time.Second

// Locator は現在位置の取得元。
type Locator interface {
	Locate(ctx context.Context) (geo.Point, error)
}

// Request はlocに1回だけ位置を問い合わせる。
// locがnilの場合は非対応エラー、取得失敗・拒否・タイムアウトは取得失敗エラーを返す。
// timeoutが0以下の場合はDefaultTimeoutを使う。
func Request(ctx context.Context, loc Locator, timeout time.Duration) (geo.Point, error) {
	if loc == nil {
		return geo.Point{}, model.NewGeolocationUnsupportedError()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		p   geo.Point
		err error
	}
	done := make(chan result, 1)
	go func() {
		p, err := loc.Locate(ctx)
		done <- result{p, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			slog.Warn("geolocation request failed", slog.String("error", r.err.Error()))
			if errors.Is(r.err, ErrUnsupported) {
				return geo.Point{}, model.NewGeolocationUnsupportedError()
			}
			return geo.Point{}, model.NewGeolocationFailedError()
		}
		return r.p, nil
	case <-ctx.Done():
		slog.Warn("geolocation request timed out", slog.Duration("timeout", timeout))
		return geo.Point{}, model.NewGeolocationFailedError()
	}
}

// ErrUnsupported はLocatorが位置情報を提供できない環境であることを示す。
var ErrUnsupported = errors.New("geolocation unsupported")

// StaticLocator は固定の位置を返すLocator。
type StaticLocator struct {
	Point geo.Point
}

// Locate は固定の位置を返す。
func (l StaticLocator) Locate(context.Context) (geo.Point, error) {
	return l.Point, nil
}

// LocatorFunc は関数をLocatorとして扱うためのアダプタ。
type LocatorFunc func(ctx context.Context) (geo.Point, error)

// Locate はf(ctx)を呼び出す。
func (f LocatorFunc) Locate(ctx context.Context) (geo.Point, error) {
	return f(ctx)
}

// compile-time interface check
var (
	_ Locator = StaticLocator{}
	_ Locator = LocatorFunc(nil)
	_ Locator = (*HTTPLocator)(nil)
)
