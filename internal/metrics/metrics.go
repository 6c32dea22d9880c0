// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// 認証ゲートウェイ、永続化、位置情報、メッセージングから利用する。
type MetricsCollector interface {
	RecordAuthAttempt(mode, op string, success bool)
	RecordPersistFailure(op string)
	RecordGeolocation(success bool)
	RecordMessageSent()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	authAttempts    *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	geolocation     *prometheus.CounterVec
	messagesSent    prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campmatch_auth_attempts_total",
			Help: "認証操作の試行回数（モード・操作・結果別）",
		}, []string{"mode", "op", "result"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campmatch_persist_failures_total",
			Help: "永続化ストアの失敗回数（操作別）",
		}, []string{"op"}),
		geolocation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campmatch_geolocation_requests_total",
			Help: "位置情報の取得要求数（結果別）",
		}, []string{"result"}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campmatch_messages_sent_total",
			Help: "送信されたメッセージの合計数",
		}),
	}

	reg.MustRegister(
		c.authAttempts,
		c.persistFailures,
		c.geolocation,
		c.messagesSent,
	)

	return c
}

// RecordAuthAttempt は認証操作の結果を記録する。
func (c *Collector) RecordAuthAttempt(mode, op string, success bool) {
	c.authAttempts.WithLabelValues(mode, op, resultLabel(success)).Inc()
}

// RecordPersistFailure は永続化の失敗を記録する。
func (c *Collector) RecordPersistFailure(op string) {
	c.persistFailures.WithLabelValues(op).Inc()
}

// RecordGeolocation は位置情報取得の結果を記録する。
func (c *Collector) RecordGeolocation(success bool) {
	c.geolocation.WithLabelValues(resultLabel(success)).Inc()
}

// RecordMessageSent はメッセージ送信を記録する。
func (c *Collector) RecordMessageSent() {
	c.messagesSent.Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NopCollector は何も記録しないMetricsCollector。
// テストやメトリクスを使わない構成で使用する。
type NopCollector struct{}

func (NopCollector) RecordAuthAttempt(string, string, bool) {}
func (NopCollector) RecordPersistFailure(string)            {}
func (NopCollector) RecordGeolocation(bool)                 {}
func (NopCollector) RecordMessageSent()                     {}

// compile-time interface checks
var _ MetricsCollector = (*Collector)(nil)
var _ MetricsCollector = NopCollector{}
