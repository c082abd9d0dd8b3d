package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// findMetric はGather結果から指定名のMetricFamilyを探す。
func findMetric(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

// labelValue はメトリクスのラベル値を取り出す。見つからない場合は空文字列。
func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestCollector_RecordHTTPStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(401)

	mf := findMetric(t, reg, "authgw_http_status_total")
	if mf == nil {
		t.Fatal("authgw_http_status_total not found")
	}

	counts := map[string]float64{}
	for _, m := range mf.GetMetric() {
		counts[labelValue(m, "status_code")] = m.GetCounter().GetValue()
	}
	if counts["200"] != 2 {
		t.Errorf("count for 200 = %v, want 2", counts["200"])
	}
	if counts["401"] != 1 {
		t.Errorf("count for 401 = %v, want 1", counts["401"])
	}
}

func TestCollector_RecordIdentityRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordIdentityRequest("signup", true)
	c.RecordIdentityRequest("login", false)

	mf := findMetric(t, reg, "authgw_identity_requests_total")
	if mf == nil {
		t.Fatal("authgw_identity_requests_total not found")
	}

	type key struct{ op, outcome string }
	counts := map[key]float64{}
	for _, m := range mf.GetMetric() {
		counts[key{labelValue(m, "op"), labelValue(m, "outcome")}] = m.GetCounter().GetValue()
	}

	if counts[key{"signup", OutcomeSuccess}] != 1 {
		t.Errorf("signup success count = %v, want 1", counts[key{"signup", OutcomeSuccess}])
	}
	if counts[key{"login", OutcomeFailure}] != 1 {
		t.Errorf("login failure count = %v, want 1", counts[key{"login", OutcomeFailure}])
	}
}

func TestCollector_RecordGenerate(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordGenerate(true, 500*time.Millisecond)
	c.RecordGenerate(false, 2*time.Second)

	mf := findMetric(t, reg, "authgw_generate_requests_total")
	if mf == nil {
		t.Fatal("authgw_generate_requests_total not found")
	}
	counts := map[string]float64{}
	for _, m := range mf.GetMetric() {
		counts[labelValue(m, "outcome")] = m.GetCounter().GetValue()
	}
	if counts[OutcomeSuccess] != 1 || counts[OutcomeFailure] != 1 {
		t.Errorf("generate counts = %v, want one success and one failure", counts)
	}

	latency := findMetric(t, reg, "authgw_generate_latency_seconds")
	if latency == nil {
		t.Fatal("authgw_generate_latency_seconds not found")
	}
	hist := latency.GetMetric()[0].GetHistogram()
	if hist.GetSampleCount() != 2 {
		t.Errorf("latency sample count = %d, want 2", hist.GetSampleCount())
	}
}

func TestCollector_RecordProfileInsert(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordProfileInsert(true)
	c.RecordProfileInsert(true)

	mf := findMetric(t, reg, "authgw_profile_inserts_total")
	if mf == nil {
		t.Fatal("authgw_profile_inserts_total not found")
	}
	m := mf.GetMetric()[0]
	if labelValue(m, "outcome") != OutcomeSuccess {
		t.Errorf("outcome = %q, want %q", labelValue(m, "outcome"), OutcomeSuccess)
	}
	if m.GetCounter().GetValue() != 2 {
		t.Errorf("count = %v, want 2", m.GetCounter().GetValue())
	}
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordHTTPStatus(200)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `authgw_http_status_total{status_code="200"} 1`) {
		t.Errorf("expected counter line in scrape output, got:\n%s", w.Body.String())
	}
}
