package diagnostic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/runtara-monitor/internal/datasource"
)

func TestGetRecommendedAction(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
		severity Severity
	}{
		{
			name:     "connection refused",
			err:      &datasource.Error{Kind: datasource.KindConnection, Op: "get health", Cause: errors.New("connection refused")},
			contains: "curl -k https://127.0.0.1:8002/api/v1/health",
			severity: SeverityCritical,
		},
		{
			name:     "certificate",
			err:      &datasource.Error{Kind: datasource.KindConnection, Op: "get health", Cause: errors.New("x509: certificate signed by unknown authority")},
			contains: "--skip-cert-verification",
			severity: SeverityCritical,
		},
		{
			name:     "timeout",
			err:      fmt.Errorf("failed to list images: %w", &datasource.Error{Kind: datasource.KindTimeout, Op: "list images"}),
			contains: "server.request_timeout",
			severity: SeverityWarning,
		},
		{
			name:     "not found",
			err:      datasource.NewServerError("get metrics", 404, "tenant not found"),
			contains: "not found",
			severity: SeverityWarning,
		},
		{
			name:     "internal",
			err:      datasource.NewServerError("list instances", 500, "boom"),
			contains: "server logs",
			severity: SeverityCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, GetRecommendedAction(tt.err, "127.0.0.1:8002"), tt.contains)
			assert.Equal(t, tt.severity, GetSeverity(tt.err))
			assert.NotEmpty(t, GetRecommendedActionChinese(tt.err, "127.0.0.1:8002"))
		})
	}
}

func TestDiagnoseUnknownError(t *testing.T) {
	_, ok := Diagnose(errors.New("plain"), "host:1", "en")
	assert.False(t, ok, "no diagnosis for an unclassified error")
	assert.Empty(t, GetRecommendedAction(nil, "host:1"))
}

func TestRecommendedActionLocale(t *testing.T) {
	err := datasource.NewServerError("get health", 503, "unavailable")

	assert.Equal(t, GetRecommendedActionChinese(err, "h:1"), RecommendedAction(err, "h:1", "zh"))

	result, ok := Diagnose(err, "h:1", "en")
	require.True(t, ok)
	assert.Equal(t, datasource.KindServer, result.Kind)
	assert.NotEmpty(t, result.Action)
}
