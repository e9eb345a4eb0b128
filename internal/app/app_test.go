package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(address string) *Config {
	cfg := &Config{ServerAddress: address, SkipCertVerification: true}
	cfg.normalize()
	cfg.ConnectTimeout = time.Second
	return cfg
}

func TestProbeSucceeds(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/health" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"healthy":true,"version":"1.4.0","uptime_ms":60000,"active_instances":2}`))
	}))
	t.Cleanup(server.Close)

	a, err := newApp(testConfig(server.URL), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	assert.NoError(t, a.Probe(context.Background()))
}

func TestProbeFailsWhenServerIsDown(t *testing.T) {
	t.Parallel()

	server := httptest.NewTLSServer(http.NotFoundHandler())
	address := server.URL
	server.Close()

	a, err := newApp(testConfig(address), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	err = a.Probe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot reach Runtara server")
}

func TestNewRejectsEmptyAddress(t *testing.T) {
	t.Parallel()

	cfg := testConfig("")
	cfg.ServerAddress = "://"
	_, err := newApp(cfg, "test", zap.NewNop())
	assert.Error(t, err)
}
