package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopRecorderImplementsRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveDefinitionDuration("centos7", time.Second)
	r.IncDefinitionOutcome("success")
	r.IncWarning(WarnMacro)
	r.ObserveRunDuration(time.Second)
}

func TestPrometheusRecorderCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncDefinitionOutcome("success")
	r.IncDefinitionOutcome("success")
	r.IncDefinitionOutcome("failed")
	r.IncWarning(WarnPackager)
	r.ObserveDefinitionDuration("centos7", 50*time.Millisecond)
	r.ObserveRunDuration(120 * time.Millisecond)

	if got := testutil.ToFloat64(r.outcomes.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(r.outcomes.WithLabelValues("failed")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(r.warnings.WithLabelValues(string(WarnPackager))); got != 1 {
		t.Fatalf("expected 1 packager warning, got %v", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(families) == 0 {
		t.Fatal("no metric families registered")
	}
}
