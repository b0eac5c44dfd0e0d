// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はメトリクス記録のインターフェース。
// ハンドラーとミドルウェアから利用する。
type Recorder interface {
	RecordCartOperation(op string)
	RecordCheckout(outcome string)
	RecordSignup(outcome string)
	RecordLogin(outcome string)
	RecordHTTPRequest(statusCode int, duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	cartOps         *prometheus.CounterVec
	checkouts       *prometheus.CounterVec
	signups         *prometheus.CounterVec
	logins          *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_operations_total",
			Help: "操作種別ごとのカート操作数",
		}, []string{"op"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_checkouts_total",
			Help: "結果ごとのチェックアウト数",
		}, []string{"outcome"}),
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_signups_total",
			Help: "結果ごとのサインアップ数",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_logins_total",
			Help: "結果ごとのログイン数",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.cartOps,
		c.checkouts,
		c.signups,
		c.logins,
		c.httpRequests,
		c.requestDuration,
	)

	return c
}

// RecordCartOperation はカート操作を記録する。
func (c *Collector) RecordCartOperation(op string) {
	c.cartOps.WithLabelValues(op).Inc()
}

// RecordCheckout はチェックアウト結果を記録する。
func (c *Collector) RecordCheckout(outcome string) {
	c.checkouts.WithLabelValues(outcome).Inc()
}

// RecordSignup はサインアップ結果を記録する。
func (c *Collector) RecordSignup(outcome string) {
	c.signups.WithLabelValues(outcome).Inc()
}

// RecordLogin はログイン結果を記録する。
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest はHTTPレスポンスのステータスコードと処理時間を記録する。
func (c *Collector) RecordHTTPRequest(statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NopRecorder は何も記録しないRecorder。テストやメトリクス無効時に使う。
type NopRecorder struct{}

func (NopRecorder) RecordCartOperation(string) {}
func (NopRecorder) RecordCheckout(string) {}
func (NopRecorder) RecordSignup(string) {}
func (NopRecorder) RecordLogin(string) {}
func (NopRecorder) RecordHTTPRequest(int, time.Duration) {}

// compile-time interface check
var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = NopRecorder{}
)
