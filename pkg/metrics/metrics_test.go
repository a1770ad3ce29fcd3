package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("/chat/completions", "200"))

	RecordRequest("/chat/completions", "200", 150*time.Millisecond)

	after := testutil.ToFloat64(RequestsTotal.WithLabelValues("/chat/completions", "200"))
	assert.Equal(t, before+1, after)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(RequestDuration), 1)
}

func TestRecordWorkflow(t *testing.T) {
	successBefore := testutil.ToFloat64(WorkflowsTotal.WithLabelValues("success"))
	errorBefore := testutil.ToFloat64(WorkflowsTotal.WithLabelValues("error"))

	RecordWorkflow(true)
	RecordWorkflow(false)

	assert.Equal(t, successBefore+1, testutil.ToFloat64(WorkflowsTotal.WithLabelValues("success")))
	assert.Equal(t, errorBefore+1, testutil.ToFloat64(WorkflowsTotal.WithLabelValues("error")))
}

func TestRecordTokens(t *testing.T) {
	promptBefore := testutil.ToFloat64(TokensTotal.WithLabelValues("prompt"))
	completionBefore := testutil.ToFloat64(TokensTotal.WithLabelValues("completion"))

	RecordTokens(120, 45)
	RecordTokens(0, 0)

	assert.Equal(t, promptBefore+120, testutil.ToFloat64(TokensTotal.WithLabelValues("prompt")))
	assert.Equal(t, completionBefore+45, testutil.ToFloat64(TokensTotal.WithLabelValues("completion")))
}

func TestRecordStage(t *testing.T) {
	RecordStage("research", 80*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(StageDuration), 1)
}

func TestRecordSearchFallback(t *testing.T) {
	before := testutil.ToFloat64(SearchFallbacksTotal)
	RecordSearchFallback()
	assert.Equal(t, before+1, testutil.ToFloat64(SearchFallbacksTotal))
}
