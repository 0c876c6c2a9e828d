package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsManager_Counters(t *testing.T) {
	m := NewMetricsManager("carmarket_test")

	m.ListingsCreated.Inc()
	m.ModerationDecisions.WithLabelValues("approved").Inc()
	m.ModerationDecisions.WithLabelValues("approved").Inc()
	m.FavoriteChanges.WithLabelValues("add").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ListingsCreated))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ModerationDecisions.WithLabelValues("approved")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ModerationDecisions.WithLabelValues("rejected")))
}

func TestNewMetricsServer_ServesRegistry(t *testing.T) {
	m := NewMetricsManager("carmarket_test")
	m.UsersDeleted.Inc()
	srv := NewMetricsServer("0", m.Registry)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "carmarket_test_users_deleted_total 1")
}
