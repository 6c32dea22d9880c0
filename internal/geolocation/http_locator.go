package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hitoshi/campmatch/internal/geo"
)

// maxResponseBytes はプロバイダ応答として読み込む上限。
const maxResponseBytes = 64 << 10

// HTTPLocator はJSONで {latitude, longitude} を返すHTTPエンドポイントから位置を取得する。
// クライアントは呼び出し側で用意する（本番ではSSRF対策済みのクライアントを渡す）。
type HTTPLocator struct {
	endpoint string
	client   *http.Client
	// HighAccuracy はプロバイダへのヒントとしてクエリに付与する。
	HighAccuracy bool
}

// NewHTTPLocator はHTTPLocatorを生成する。
func NewHTTPLocator(endpoint string, client *http.Client) *HTTPLocator {
	return &HTTPLocator{endpoint: endpoint, client: client, HighAccuracy: true}
}

type positionResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Locate はエンドポイントにGETリクエストを送り、位置を返す。
func (l *HTTPLocator) Locate(ctx context.Context) (geo.Point, error) {
	target, err := url.Parse(l.endpoint)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid geolocation endpoint: %w", err)
	}
	if l.HighAccuracy {
		q := target.Query()
		q.Set("enableHighAccuracy", "true")
		target.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return geo.Point{}, fmt.Errorf("failed to create geolocation request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Point{}, fmt.Errorf("geolocation provider returned status %d", resp.StatusCode)
	}

	var pos positionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&pos); err != nil {
		return geo.Point{}, fmt.Errorf("failed to parse geolocation response: %w", err)
	}
	if pos.Latitude == nil || pos.Longitude == nil {
		return geo.Point{}, fmt.Errorf("geolocation response missing latitude or longitude")
	}

	return geo.Point{Lat: *pos.Latitude, Lon: *pos.Longitude}, nil
}
