package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/marketplace/internal/metrics"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

func TestLogRecorder(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.IntoContext(context.Background(), logging.NewWithWriter(&buf, "debug"))
	m := metrics.New()
	r := LogRecorder{Metrics: m}

	r.Record(ctx, Outcome{Operation: OpRating, TargetID: "t1", Status: OutcomeFailed, Reason: "cannot publish rating", Err: errors.New("boom")})
	r.Record(ctx, Outcome{Operation: OpRating, TargetID: "t2", Status: OutcomeSkipped, Reason: "unknown item type x"})
	r.Record(ctx, Outcome{Operation: OpDownloadCounter, TargetID: "t3", Status: OutcomeApplied})

	out := buf.String()
	assert.Contains(t, out, "secondary_update_failed")
	assert.Contains(t, out, "secondary_update_skipped")
	assert.Contains(t, out, "secondary_update_applied")
	assert.Contains(t, out, "t1")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SecondaryUpdates.WithLabelValues(OpRating, "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SecondaryUpdates.WithLabelValues(OpRating, "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SecondaryUpdates.WithLabelValues(OpDownloadCounter, "applied")))
}

func TestLogRecorder_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		LogRecorder{}.Record(context.Background(), Outcome{Operation: OpRating, Status: OutcomeApplied})
	})
}
