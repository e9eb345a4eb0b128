package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yourusername/runtara-monitor/internal/app"
)

var (
	// Version will be set by build flags
	Version = "dev"
	// BuildTime will be set by build flags
	BuildTime = "unknown"

	// Global flags
	configFile string
	verbose    bool
	locale     string
)

var rootCmd = &cobra.Command{
	Use:   "runtara-monitor",
	Short: "A read-only terminal dashboard for a Runtara server",
	Long: `runtara-monitor is a read-only terminal dashboard for the Runtara
durable execution platform. It shows workflow instances, their checkpoints,
registered images, per-tenant metrics and server health.

Running it without a subcommand starts the dashboard, the same as "console".`,
	Version:      Version,
	Args:         cobra.NoArgs,
	RunE:         runConsole,
	SilenceUsage: true,
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive dashboard",
	Long:  `Launch the interactive TUI dashboard against a Runtara server`,
	Args:  cobra.NoArgs,
	RunE:  runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	rootCmd.SetVersionTemplate(fmt.Sprintf("runtara-monitor {{.Version}} (built %s)\n", BuildTime))

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&locale, "locale", "l", "en", "interface language (en, zh)")

	// Dashboard flags, shared by the root command and console
	rootCmd.PersistentFlags().StringP("server", "s", app.DefaultServerAddress, "Runtara server address (host:port), env RUNTARA_ENV_ADDR")
	rootCmd.PersistentFlags().StringP("tenant", "t", "", "tenant ID whose metrics are shown")
	rootCmd.PersistentFlags().IntP("refresh", "r", int(app.DefaultRefreshInterval/time.Second), "refresh interval in seconds")
	rootCmd.PersistentFlags().Bool("skip-cert-verification", true, "skip TLS certificate verification, env RUNTARA_SKIP_CERT_VERIFICATION")
}

// applyFlags overrides config values with the flags the user set explicitly
func applyFlags(config *app.Config, flags *pflag.FlagSet) {
	if flags.Changed("server") {
		config.ServerAddress, _ = flags.GetString("server")
	}
	if flags.Changed("tenant") {
		config.TenantID, _ = flags.GetString("tenant")
	}
	if flags.Changed("refresh") {
		if refresh, _ := flags.GetInt("refresh"); refresh > 0 {
			config.RefreshInterval = time.Duration(refresh) * time.Second
		}
	}
	if flags.Changed("skip-cert-verification") {
		config.SkipCertVerification, _ = flags.GetBool("skip-cert-verification")
	}
	// Only override locale if user explicitly specified it
	if flags.Changed("locale") {
		config.Locale, _ = flags.GetString("locale")
	}
	if debug, _ := flags.GetBool("verbose"); debug {
		config.LogLevel = "debug"
	}
}

func runConsole(cmd *cobra.Command, args []string) error {
	config, err := app.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(config, cmd.Flags())

	application, err := app.New(config, Version)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
