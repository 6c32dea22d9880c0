package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue はレジストリから指定名・ラベルのカウンタ値を探す。
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) (float64, bool) {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := 0
			for _, lp := range m.GetLabel() {
				if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return m.GetCounter().GetValue(), true
			}
		}
	}
	return 0, false
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	if c := NewCollector(prometheus.NewRegistry()); c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordAuthAttempt_LabelsByModeOpResult は認証試行がラベル別に集計されることを検証する。
func TestRecordAuthAttempt_LabelsByModeOpResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthAttempt("local", "login", true)
	c.RecordAuthAttempt("local", "login", true)
	c.RecordAuthAttempt("remote", "register", false)

	v, ok := counterValue(t, reg, "campmatch_auth_attempts_total", map[string]string{
		"mode": "local", "op": "login", "result": "success",
	})
	if !ok {
		t.Fatal("local login success metric not found")
	}
	if v != 2 {
		t.Errorf("local login success = %v, want 2", v)
	}

	v, ok = counterValue(t, reg, "campmatch_auth_attempts_total", map[string]string{
		"mode": "remote", "op": "register", "result": "failure",
	})
	if !ok || v != 1 {
		t.Error("remote register failure should be 1")
	}
}

// TestRecordPersistFailure_IncrementsByOp は永続化失敗が操作別に集計されることを検証する。
func TestRecordPersistFailure_IncrementsByOp(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPersistFailure("write")
	c.RecordPersistFailure("write")
	c.RecordPersistFailure("read")

	if v, ok := counterValue(t, reg, "campmatch_persist_failures_total", map[string]string{"op": "write"}); !ok || v != 2 {
		t.Error("write failures should be 2")
	}
	if v, ok := counterValue(t, reg, "campmatch_persist_failures_total", map[string]string{"op": "read"}); !ok || v != 1 {
		t.Error("read failures should be 1")
	}
}

// TestRecordGeolocation_SuccessAndFailure は位置情報取得の結果が集計されることを検証する。
func TestRecordGeolocation_SuccessAndFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordGeolocation(true)
	c.RecordGeolocation(false)
	c.RecordGeolocation(false)

	if v, ok := counterValue(t, reg, "campmatch_geolocation_requests_total", map[string]string{"result": "failure"}); !ok || v != 2 {
		t.Error("geolocation failures should be 2")
	}
}

// TestRecordMessageSent_IncrementsCounter はメッセージ送信カウンタが増加することを検証する。
func TestRecordMessageSent_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordMessageSent()
	c.RecordMessageSent()
	c.RecordMessageSent()

	v, ok := counterValue(t, reg, "campmatch_messages_sent_total", nil)
	if !ok {
		t.Fatal("campmatch_messages_sent_total not found")
	}
	if v != 3 {
		t.Errorf("messages_sent_total = %v, want 3", v)
	}
}

// TestNewCollector_DuplicateRegistration_Panics は同一レジストリへの二重登録でpanicすることを検証する。
func TestNewCollector_DuplicateRegistration_Panics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	NewCollector(reg)
}
