package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"pagecraft/quill/pkg/api"
	"pagecraft/quill/pkg/assist"
	"pagecraft/quill/pkg/cache"
	"pagecraft/quill/pkg/cli"
	"pagecraft/quill/pkg/config"
	"pagecraft/quill/pkg/ledger"
	"pagecraft/quill/pkg/ledger/retention"
	"pagecraft/quill/pkg/providers"
	"pagecraft/quill/pkg/providers/openai"
	"pagecraft/quill/pkg/quota"
	"pagecraft/quill/pkg/security/auth"
	"pagecraft/quill/pkg/security/redact"
	"pagecraft/quill/pkg/security/secrets"
	"pagecraft/quill/pkg/server"
	"pagecraft/quill/pkg/telemetry/logging"
	"pagecraft/quill/pkg/telemetry/metrics"
	"pagecraft/quill/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Quill mediation server",
	Long: `Start the Quill mediation server with the specified configuration.

The server listens on the configured address and carries drafting
requests through caller authorization, content screening, the response
cache, quota admission, and finally the generative provider.

Examples:
  # Start with default config
  quill run

  # Start with custom config
  quill run --config /etc/quill/config.yaml

  # Override listen address
  quill run --listen 0.0.0.0:8080

  # Validate config without starting server
  quill run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	// The validator comes first: the log redactor needs it, so it must
	// exist before the logger.
	validator := redact.NewValidator()
	if cfg.Redaction.CustomPatternsPath != "" {
		if err := validator.LoadCustomFile(cfg.Redaction.CustomPatternsPath); err != nil {
			return cli.NewConfigError("redaction.custom_patterns_path",
				fmt.Sprintf("failed to load custom patterns: %v", err))
		}
	}

	logCfg := logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	}
	if cfg.Telemetry.Logging.RedactContent {
		logCfg.Redactor = redact.NewLogRedactor(validator)
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	// Components that take a *slog.Logger fall back to the default, so
	// point it at the configured handler too.
	slog.SetDefault(logger.Slog())

	printBanner(cfg)

	// Signal context drives every background component and the server.
	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	// Secret providers are tried in order; files win over environment.
	var secretProviders []secrets.SecretProvider
	if cfg.Secrets.FilePath != "" {
		fileProvider, err := secrets.NewFileProvider(cfg.Secrets.FilePath, cfg.Secrets.WatchFiles)
		if err != nil {
			return cli.NewConfigError("secrets.file_path",
				fmt.Sprintf("failed to create file secret provider: %v", err))
		}
		secretProviders = append(secretProviders, fileProvider)
	}
	secretProviders = append(secretProviders, secrets.NewEnvProvider(cfg.Secrets.EnvPrefix))
	secretsManager := secrets.NewManager(secretProviders, secrets.CacheConfig{
		Enabled: true,
		TTL:     cfg.Secrets.CacheTTL,
		MaxSize: cfg.Secrets.CacheMaxSize,
	})

	provider, err := openai.NewProvider(openai.Config{
		Name:             cfg.Provider.Name,
		BaseURL:          cfg.Provider.BaseURL,
		APIKeyName:       cfg.Provider.APIKeyName,
		MaxTokens:        cfg.Provider.MaxTokens,
		Temperature:      cfg.Provider.Temperature,
		InputTokenBudget: cfg.Provider.InputTokenBudget,
		Client: providers.ClientConfig{
			Name:                cfg.Provider.Name,
			BaseURL:             cfg.Provider.BaseURL,
			ConnectTimeout:      cfg.Provider.ConnectTimeout,
			RequestTimeout:      cfg.Provider.RequestTimeout,
			MaxIdleConns:        cfg.Provider.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.Provider.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.Provider.IdleConnTimeout,
		},
	}, secretsManager, validator)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to create provider: %w", err))
	}
	defer provider.Close()
	fmt.Printf("✓ Provider initialized (%s)\n", provider.GetName())

	deps := assist.Dependencies{
		Validator: validator,
		Provider:  provider,
		Metrics:   collector,
		Tracer:    tracer,
		Logger:    logger,
	}

	if cfg.Cache.Enabled {
		deps.Cache = cache.New(cache.Config{
			TTL:      cfg.Cache.TTL,
			Capacity: cfg.Cache.Capacity,
			Shards:   cfg.Cache.Shards,
		})
		fmt.Printf("✓ Response cache enabled (capacity %d, ttl %s)\n", cfg.Cache.Capacity, cfg.Cache.TTL)
	}

	var quotaTracker *quota.Tracker
	if cfg.Quota.Enabled {
		var quotaStore quota.Store
		switch cfg.Quota.Backend {
		case "sqlite":
			quotaStore, err = quota.NewSQLiteStore(cfg.Quota.SQLite.Path)
			if err != nil {
				return cli.NewCommandError("run", fmt.Errorf("failed to create quota store: %w", err))
			}
		case "memory", "":
			quotaStore = quota.NewMemoryStore()
		default:
			return cli.NewConfigError("quota.backend",
				fmt.Sprintf("unsupported quota backend: %s", cfg.Quota.Backend))
		}
		defer quotaStore.Close()

		quotaTracker = quota.NewTracker(quota.Config{
			Enabled:    true,
			DailyLimit: cfg.Quota.DailyLimit,
			Overrides:  cfg.Quota.Overrides,
		}, quotaStore, logger.Slog())
		deps.Quota = quotaTracker
		fmt.Printf("✓ Quota enforcement enabled (%d calls/day)\n", cfg.Quota.DailyLimit)
	}

	var ledgerStore ledger.Store
	if cfg.Ledger.Enabled {
		switch cfg.Ledger.Backend {
		case "sqlite":
			sqliteCfg := ledger.DefaultSQLiteConfig()
			sqliteCfg.Path = cfg.Ledger.SQLite.Path
			ledgerStore, err = ledger.NewSQLiteStore(sqliteCfg)
			if err != nil {
				return cli.NewCommandError("run", fmt.Errorf("failed to create ledger store: %w", err))
			}
		case "memory", "":
			ledgerStore = ledger.NewMemoryStore(cfg.Ledger.MemoryCapacity)
		default:
			return cli.NewConfigError("ledger.backend",
				fmt.Sprintf("unsupported ledger backend: %s", cfg.Ledger.Backend))
		}
		defer ledgerStore.Close()

		recorderCfg := ledger.DefaultRecorderConfig()
		recorderCfg.BufferSize = cfg.Ledger.BufferSize
		recorder := ledger.NewRecorder(ledgerStore, recorderCfg)
		defer recorder.Close()
		deps.Ledger = recorder
		fmt.Printf("✓ Ledger enabled (%s backend)\n", cfg.Ledger.Backend)

		// Retention rides a cron schedule; quota day cleanup shares it
		// so both stores age out together.
		if cfg.Ledger.PruneSchedule != "" && cfg.Ledger.RetentionDays > 0 {
			pruner := retention.NewPruner(ledgerStore, &retention.Config{
				RetentionDays: cfg.Ledger.RetentionDays,
			})
			jobs := []retention.Job{pruner.Job()}
			if quotaTracker != nil {
				retainDays := cfg.Ledger.RetentionDays
				jobs = append(jobs, retention.Job{
					Name: "quota-cleanup",
					Run: func(ctx context.Context) (int64, error) {
						n, err := quotaTracker.Cleanup(ctx, retainDays)
						return int64(n), err
					},
				})
			}
			scheduler := retention.NewScheduler(cfg.Ledger.PruneSchedule, jobs...)
			if err := scheduler.Start(ctx); err != nil {
				logger.Warn("failed to start retention scheduler", "error", err)
			} else {
				defer scheduler.Stop()
			}
		}
	}

	// Reload custom patterns on file change.
	if cfg.Redaction.Watch && cfg.Redaction.CustomPatternsPath != "" {
		watcher, err := redact.NewWatcher(validator, redact.WatcherConfig{
			Path:             cfg.Redaction.CustomPatternsPath,
			DebounceInterval: cfg.Redaction.DebounceInterval,
			OnReload: func(ok bool) {
				if ok {
					collector.RecordPatternReload()
				}
			},
		}, logger)
		if err != nil {
			logger.Warn("failed to create pattern watcher", "error", err)
		} else {
			go func() {
				if err := watcher.Watch(ctx); err != nil {
					logger.Warn("pattern watcher exited", "error", err)
				}
			}()
			defer watcher.Stop()
		}
	}

	var authorizer auth.Authorizer
	switch cfg.Auth.Mode {
	case "space_list":
		spaceList := auth.NewSpaceList()
		for space, subjects := range cfg.Auth.Spaces {
			spaceList.Grant(space, subjects...)
		}
		authorizer = spaceList
	default:
		authorizer = auth.AllowAll()
	}
	deps.Authorizer = authorizer

	service, err := assist.New(assist.Config{
		AllowedModels: cfg.Models.Allowed,
		DefaultModel:  cfg.Models.Default,
	}, deps)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to create generation service: %w", err))
	}

	serverDeps := server.Dependencies{
		Service: service,
		Logger:  logger,
		ReadyChecks: []api.ReadyCheck{
			{
				Name: "provider",
				Check: func(ctx context.Context) error {
					if !provider.IsHealthy() {
						return errors.New("provider unhealthy")
					}
					return nil
				},
			},
		},
	}
	if cfg.Telemetry.Metrics.Enabled {
		serverDeps.Metrics = collector.Handler()
	}
	if cfg.Server.RequireToken {
		serverDeps.TokenSource = func(ctx context.Context) (string, error) {
			return secretsManager.GetSecret(ctx, secrets.NameServerAuthToken)
		}
	}

	srv, err := server.New(&cfg.Server, serverDeps)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to create server: %w", err))
	}

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/healthz\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Start blocks until ctx is cancelled or the listener fails, and
	// drains in-flight requests before returning.
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Quill v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	slog.Debug("models configured",
		"allowed", cfg.Models.Allowed,
		"default", cfg.Models.Default,
	)
	if cfg.Quota.Enabled {
		slog.Debug("quota enabled", "backend", cfg.Quota.Backend, "daily_limit", cfg.Quota.DailyLimit)
	}
	if cfg.Ledger.Enabled {
		slog.Debug("ledger enabled", "backend", cfg.Ledger.Backend)
	}
}
