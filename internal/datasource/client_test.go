package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/runtara-monitor/internal/model"
	"go.uber.org/zap"
)

func newTestClient(server *httptest.Server) *HTTPClient {
	return &HTTPClient{baseURL: server.URL, http: server.Client(), logger: zap.NewNop()}
}

func TestListInstances(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/instances", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "acme", q.Get("tenant_id"))
		assert.Equal(t, "failed", q.Get("status"))
		assert.Equal(t, "100", q.Get("limit"))
		_, err := uuid.Parse(r.Header.Get(requestIDHeader))
		assert.NoError(t, err, "request id header")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"instances":[
			{"instance_id":"i-1","tenant_id":"acme","status":"failed","image_id":"img-1","image_name":"billing",
			 "created_at":"2026-01-02T03:04:05Z","retry_count":2,"max_retries":3,
			 "input":{"order":42},"output":null,"error":"boom"},
			{"instance_id":"i-2","tenant_id":"acme","status":"running","created_at":"2026-01-02T03:04:05Z","error":"ignored"}
		],"total_count":2}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	instances, err := client.ListInstances(context.Background(), InstanceQuery{
		TenantID: "acme",
		Status:   model.StatusFailed,
	})
	require.NoError(t, err)
	require.Len(t, instances, 2)

	first := instances[0]
	assert.Equal(t, "i-1", first.ID)
	assert.Equal(t, model.StatusFailed, first.Status)
	assert.Equal(t, "boom", first.Error)
	assert.Equal(t, 2, first.RetryCount)
	assert.JSONEq(t, `{"order":42}`, string(first.Input))
	assert.Nil(t, first.Output)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt, "missing updated_at falls back to created_at")

	assert.Equal(t, model.StatusRunning, instances[1].Status)
	assert.Empty(t, instances[1].Error, "error is only kept for failed instances")
}

func TestGetMetrics(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tenants/acme/metrics", r.URL.Path)
		assert.Equal(t, "daily", r.URL.Query().Get("granularity"))
		_, _ = w.Write([]byte(`{"tenant_id":"acme","granularity":"daily","buckets":[
			{"bucket_time":"2026-01-02T00:00:00Z","invocation_count":10,"success_count":9,"failure_count":1,
			 "avg_duration_seconds":1.5,"max_duration_seconds":4}
		]}`))
	}))
	defer server.Close()

	series, err := newTestClient(server).GetMetrics(context.Background(), "acme", model.GranularityDaily)
	require.NoError(t, err)
	require.Len(t, series.Buckets, 1)

	b := series.Buckets[0]
	assert.Equal(t, "acme", b.TenantID)
	assert.Equal(t, model.GranularityDaily, b.Granularity)
	assert.Equal(t, int64(10), b.Invocations)
	assert.Equal(t, 1500*time.Millisecond, b.AvgDuration)
	assert.Equal(t, 4*time.Second, b.MaxDuration)
}

func TestGetMetricsRequiresTenant(t *testing.T) {
	t.Parallel()

	client := &HTTPClient{baseURL: "http://unused", http: http.DefaultClient, logger: zap.NewNop()}
	_, err := client.GetMetrics(context.Background(), "", model.GranularityHourly)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindServer))
}

func TestGetHealth(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"healthy":true,"version":"1.4.0","uptime_ms":93784000,"active_instances":7}`))
	}))
	defer server.Close()

	health, err := newTestClient(server).GetHealth(context.Background())
	require.NoError(t, err)
	assert.True(t, health.Healthy)
	assert.Equal(t, "1.4.0", health.Version)
	assert.Equal(t, 26*time.Hour+3*time.Minute+4*time.Second, health.Uptime)
	assert.Equal(t, 7, health.ActiveInstances)
}

func TestCheckpoints(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/instances/i-1/checkpoints", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"checkpoints":[
			{"checkpoint_id":"cp-1","sequence":1,"created_at":"2026-01-02T03:04:05Z","data_size_bytes":12}
		],"total_count":1}`))
	})
	mux.HandleFunc("/api/v1/instances/i-1/checkpoints/cp-1/data", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte(`{"step":3}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server)

	checkpoints, err := client.ListCheckpoints(context.Background(), "i-1")
	require.NoError(t, err)
	require.Len(t, checkpoints, 1)
	assert.Equal(t, "cp-1", checkpoints[0].ID)
	assert.Equal(t, "i-1", checkpoints[0].InstanceID, "instance back-reference is filled in")
	assert.Equal(t, int64(12), checkpoints[0].SizeBytes)

	data, err := client.GetCheckpointData(context.Background(), "i-1", "cp-1")
	require.NoError(t, err)
	assert.Equal(t, `{"step":3}`, string(data))
}

func TestServerErrorCarriesCodeAndMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"database unavailable"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).ListImages(context.Background(), "")
	require.Error(t, err)

	var dsErr *Error
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, KindServer, dsErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, dsErr.Code)
	assert.Equal(t, "database unavailable", dsErr.Message)
	assert.Contains(t, err.Error(), "list images")
}

func TestServerErrorWithoutBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server).GetCheckpointData(context.Background(), "i-1", "missing")
	var dsErr *Error
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, http.StatusNotFound, dsErr.Code)
	assert.Equal(t, "Not Found", dsErr.Message)
}

func TestMalformedBodyIsServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server).GetHealth(context.Background())
	assert.True(t, IsKind(err, KindServer))
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := newTestClient(server)
	client.http.Timeout = 50 * time.Millisecond

	_, err := client.GetHealth(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTimeout), "got %v", err)
}

func TestConnectionError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(server)
	server.Close()

	_, err := client.GetHealth(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConnection), "got %v", err)
}

func TestNewHTTPClientTLS(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"healthy":true,"version":"dev"}`))
	}))
	defer server.Close()

	insecure, err := NewHTTPClient(ClientConfig{Address: server.URL, SkipCertVerification: true}, zap.NewNop())
	require.NoError(t, err)
	defer insecure.Close()

	health, err := insecure.GetHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dev", health.Version)

	strict, err := NewHTTPClient(ClientConfig{Address: server.URL, ConnectTimeout: time.Second}, zap.NewNop())
	require.NoError(t, err)
	defer strict.Close()

	_, err = strict.GetHealth(context.Background())
	assert.True(t, IsKind(err, KindConnection), "self-signed certificate must be rejected, got %v", err)
}

func TestNormalizeAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"127.0.0.1:8002", "https://127.0.0.1:8002", false},
		{" runtara.local:8002 ", "https://runtara.local:8002", false},
		{"http://localhost:8002/", "http://localhost:8002", false},
		{"", "", true},
		{"https://", "", true},
	}

	for _, tt := range tests {
		got, err := normalizeAddress(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
