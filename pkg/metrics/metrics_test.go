package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusCollector(t *testing.T) {
	c := NewCollector()
	ctx := context.Background()

	c.RecordOperation(ctx, "ingest", "success", 120)
	c.RecordOperation(ctx, "ingest", "success", 80)
	c.RecordError(ctx, "ingest", "network")
	c.SetStorageCount(ctx, "nodes", 7)
	c.RecordStage(ctx, "ingest", "extract", 50)

	if got := testutil.ToFloat64(c.operationsTotal.WithLabelValues("ingest", "success")); got != 2 {
		t.Errorf("operations counter = %f, want 2", got)
	}
	if got := testutil.ToFloat64(c.errorsTotal.WithLabelValues("ingest", "network")); got != 1 {
		t.Errorf("errors counter = %f, want 1", got)
	}
	if got := testutil.ToFloat64(c.storageCount.WithLabelValues("nodes")); got != 7 {
		t.Errorf("storage gauge = %f, want 7", got)
	}

	if c.Registry() == nil {
		t.Error("Registry returned nil")
	}
}

func TestNoopCollector(t *testing.T) {
	var c Collector = NewNoopCollector()
	ctx := context.Background()

	// Must be safe to call with anything.
	c.RecordOperation(ctx, "ingest", "success", 0)
	c.RecordStage(ctx, "recall", "rank", -1)
	c.RecordError(ctx, "", "")
	c.SetStorageCount(ctx, "nodes", 0)
}
