package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/runtara-monitor/internal/app"
)

func TestApplyFlagsOnlyOverridesChanged(t *testing.T) {
	config := &app.Config{
		ServerAddress:        "from-config:1",
		TenantID:             "acme",
		RefreshInterval:      7 * time.Second,
		SkipCertVerification: false,
		Locale:               "zh",
		LogLevel:             "info",
	}

	// Flags given to the bare command, as in `runtara-monitor -s cli:2 -r 3`
	require.NoError(t, rootCmd.ParseFlags([]string{"-s", "cli:2", "-r", "3"}))

	applyFlags(config, rootCmd.Flags())

	assert.Equal(t, "cli:2", config.ServerAddress)
	assert.Equal(t, 3*time.Second, config.RefreshInterval)
	assert.Equal(t, "acme", config.TenantID, "unchanged flag must not override")
	assert.False(t, config.SkipCertVerification, "flag default must not override")
	assert.Equal(t, "zh", config.Locale, "unchanged flag must not override")
	assert.Equal(t, "info", config.LogLevel)
}

func TestRootCommandRunsDashboard(t *testing.T) {
	require.NotNil(t, rootCmd.RunE)
	require.NotNil(t, consoleCmd.RunE)

	for _, name := range []string{"server", "tenant", "refresh", "skip-cert-verification"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "root flag %s", name)
		assert.NotNil(t, consoleCmd.InheritedFlags().Lookup(name), "console flag %s", name)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().ShorthandLookup("s"))
}
