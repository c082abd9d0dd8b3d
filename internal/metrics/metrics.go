// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 外部プロバイダー呼び出しの結果ラベル値。
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector はゲートウェイのPrometheusメトリクスを収集する。
type Collector struct {
	httpStatus      *prometheus.CounterVec
	requestLatency  prometheus.Histogram
	identityCalls   *prometheus.CounterVec
	profileInserts  *prometheus.CounterVec
	generateCalls   *prometheus.CounterVec
	generateLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authgw_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "authgw_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		identityCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authgw_identity_requests_total",
			Help: "認証プロバイダー呼び出しの操作別・結果別合計数",
		}, []string{"op", "outcome"}),
		profileInserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authgw_profile_inserts_total",
			Help: "プロフィール挿入の結果別合計数",
		}, []string{"outcome"}),
		generateCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authgw_generate_requests_total",
			Help: "テキスト生成呼び出しの結果別合計数",
		}, []string{"outcome"}),
		generateLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "authgw_generate_latency_seconds",
			Help:    "テキスト生成呼び出しのレイテンシ（秒）",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.identityCalls,
		c.profileInserts,
		c.generateCalls,
		c.generateLatency,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はHTTPリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordIdentityRequest は認証プロバイダー呼び出しの結果を記録する。
// opは"signup"、"login"、"verify"のいずれか。
func (c *Collector) RecordIdentityRequest(op string, success bool) {
	c.identityCalls.WithLabelValues(op, outcomeLabel(success)).Inc()
}

// RecordProfileInsert はプロフィール挿入の結果を記録する。
func (c *Collector) RecordProfileInsert(success bool) {
	c.profileInserts.WithLabelValues(outcomeLabel(success)).Inc()
}

// RecordGenerate はテキスト生成呼び出しの結果とレイテンシを記録する。
func (c *Collector) RecordGenerate(success bool, duration time.Duration) {
	c.generateCalls.WithLabelValues(outcomeLabel(success)).Inc()
	c.generateLatency.Observe(duration.Seconds())
}

func outcomeLabel(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
