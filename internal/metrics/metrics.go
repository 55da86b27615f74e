// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// 認証フローの結果とHTTPレスポンスのステータスを記録する。
type Collector struct {
	loginRedirects  prometheus.Counter
	callbackOutcome *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
	exchangeLatency prometheus.Histogram
	usersCreated    prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginRedirects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spotpoints_login_redirects_total",
			Help: "Spotify認可URLへのリダイレクト回数",
		}),
		callbackOutcome: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spotpoints_callback_total",
			Help: "OAuthコールバック処理の結果別の回数",
		}, []string{"outcome"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spotpoints_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		exchangeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "spotpoints_token_exchange_latency_seconds",
			Help:    "Spotifyトークン交換のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spotpoints_users_created_total",
			Help: "新規作成されたユーザードキュメントの合計数",
		}),
	}

	reg.MustRegister(
		c.loginRedirects,
		c.callbackOutcome,
		c.httpStatus,
		c.exchangeLatency,
		c.usersCreated,
	)

	return c
}

// RecordLoginRedirect は認可URLへのリダイレクトを記録する。
func (c *Collector) RecordLoginRedirect() {
	c.loginRedirects.Inc()
}

// RecordCallbackOutcome はコールバック処理の結果を記録する。
func (c *Collector) RecordCallbackOutcome(outcome string) {
	c.callbackOutcome.WithLabelValues(outcome).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordExchangeLatency はトークン交換のレイテンシを記録する。
func (c *Collector) RecordExchangeLatency(duration time.Duration) {
	c.exchangeLatency.Observe(duration.Seconds())
}

// RecordUserCreated は新規ユーザー作成を記録する。
func (c *Collector) RecordUserCreated() {
	c.usersCreated.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
