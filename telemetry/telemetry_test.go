package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersExported(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	defer m.Shutdown(context.Background())

	ctx := context.Background()
	m.Dialogue(ctx, "advanced", nil)
	m.Segment(ctx, "EXAMINER", nil)
	m.Segment(ctx, "CANDIDATE", errors.New("quota"))
	m.Podcast(ctx, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "ielts_dialogues_generated")
	assert.Contains(t, body, "ielts_tts_segments")
	assert.Contains(t, body, "ielts_podcasts_generated")
	assert.Contains(t, body, `outcome="error"`)
	assert.Contains(t, body, `difficulty="advanced"`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Dialogue(context.Background(), "beginner", nil)
		m.Segment(context.Background(), "EXAMINER", nil)
		m.Podcast(context.Background(), nil)
	})
}
