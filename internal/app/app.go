package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/runtara-monitor/internal/datasource"
	"github.com/yourusername/runtara-monitor/internal/diagnostic"
	"github.com/yourusername/runtara-monitor/internal/ui"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// App represents the main application
type App struct {
	logger  *zap.Logger
	config  *Config
	version string
	client  datasource.Client
	source  *datasource.SnapshotSource
}

// New creates a new App instance
func New(config *Config, version string) (*App, error) {
	logger, err := initLogger(config.LogLevel, config.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return newApp(config, version, logger)
}

func newApp(config *Config, version string, logger *zap.Logger) (*App, error) {
	client, err := datasource.NewHTTPClient(datasource.ClientConfig{
		Address:              config.ServerAddress,
		SkipCertVerification: config.SkipCertVerification,
		ConnectTimeout:       config.ConnectTimeout,
		RequestTimeout:       config.RequestTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &App{
		logger:  logger,
		config:  config,
		version: version,
		client:  client,
		source:  datasource.NewSnapshotSource(client, logger),
	}, nil
}

// Probe checks that the server answers a health request within the connect timeout
func (a *App) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.ConnectTimeout)
	defer cancel()

	health, err := a.client.GetHealth(ctx)
	if err != nil {
		a.logger.Error("Startup probe failed", zap.String("server", a.config.ServerAddress), zap.Error(err))
		hint := diagnostic.RecommendedAction(err, a.config.ServerAddress, a.config.Locale)
		if hint == "" {
			return fmt.Errorf("cannot reach Runtara server at %s: %w", a.config.ServerAddress, err)
		}
		return fmt.Errorf("cannot reach Runtara server at %s: %w\n%s", a.config.ServerAddress, err, hint)
	}

	a.logger.Info("Startup probe succeeded",
		zap.Bool("healthy", health.Healthy),
		zap.String("server_version", health.Version),
	)
	return nil
}

// Run probes the server, then runs the UI until the user quits or ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting runtara-monitor",
		zap.String("version", a.version),
		zap.String("server", a.config.ServerAddress),
		zap.String("tenant", a.config.TenantID),
		zap.Duration("refresh_interval", a.config.RefreshInterval),
	)
	a.logger.Debug("Application configuration loaded",
		zap.Bool("skip_cert_verification", a.config.SkipCertVerification),
		zap.Duration("connect_timeout", a.config.ConnectTimeout),
		zap.Duration("request_timeout", a.config.RequestTimeout),
		zap.String("log_level", a.config.LogLevel),
		zap.String("log_file", a.config.LogFile),
	)

	if err := a.Probe(ctx); err != nil {
		return err
	}

	return a.startUI(ctx)
}

// startUI starts the Bubble Tea UI
func (a *App) startUI(ctx context.Context) error {
	a.logger.Info("Starting UI", zap.String("locale", a.config.Locale))

	uiModel := ui.NewModel(ctx, a.source, a.client, a.logger, ui.Options{
		ServerAddress:   a.config.ServerAddress,
		TenantID:        a.config.TenantID,
		RefreshInterval: a.config.RefreshInterval,
		Locale:          a.config.Locale,
		Version:         a.version,
	})
	uiModel.SetConnected(true)

	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			a.logger.Info("UI stopped by signal")
			return nil
		}
		return fmt.Errorf("UI error: %w", err)
	}
	return nil
}

// Shutdown releases the client and flushes the log
func (a *App) Shutdown() error {
	a.logger.Info("Shutting down application...")

	if a.client != nil {
		if err := a.client.Close(); err != nil {
			a.logger.Error("Failed to close client", zap.Error(err))
		}
	}

	// Sync only flushes buffered log entries, ignore stderr sync errors
	_ = a.logger.Sync()
	return nil
}

// initLogger initializes the zap logger with file rotation support
func initLogger(levelStr, logFile string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if logFile == "" {
		logFile = DefaultLogFile
	}

	// File output only: Bubble Tea owns stdout and stderr while running
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	})
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	zap.ReplaceGlobals(logger)

	return logger, nil
}
