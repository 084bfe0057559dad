package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/pwdfinder/internal/bus"
	"github.com/nao1215/pwdfinder/internal/config"
	"github.com/nao1215/pwdfinder/internal/database"
	"github.com/nao1215/pwdfinder/internal/finder"
	"github.com/nao1215/pwdfinder/internal/log"
	"github.com/nao1215/pwdfinder/internal/model"
	"github.com/nao1215/pwdfinder/internal/oracle"
	"github.com/nao1215/pwdfinder/internal/report"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// addSearchFlags registers the flags of a search run on cmd.
func addSearchFlags(cmd *cobra.Command) {
	defaults := config.NewConfig()

	// Search flags
	cmd.Flags().IntP("workers", "w", defaults.Workers,
		"Number of workers, one dictionary partition each")
	cmd.Flags().Int64("overlap", defaults.Overlap,
		"Bytes read past each partition boundary to find the end of the last line")
	cmd.Flags().StringP("result", "r", defaults.ResultPath,
		"Result file path (truncated at start)")
	cmd.Flags().String("oracle", defaults.Oracle,
		fmt.Sprintf("Hash function of the target %v", oracle.Names()))

	// Cancellation bus flags
	cmd.Flags().String("bus", defaults.Bus,
		"Cancellation transport: local or redis")
	cmd.Flags().String("redis-addr", defaults.RedisAddr,
		"Redis address used by --bus redis")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pwdfinder in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-history", false,
		"Do not record the job in the history database")
}

// runSearchCmd executes a search.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.New(os.Stderr, cfg.LogFormat, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runSearch(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig layers defaults, the configuration file and the flags that
// were set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit config path must exist; a missing default file is fine.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("overlap") {
		if cfg.Overlap, err = flags.GetInt64("overlap"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("result") {
		if cfg.ResultPath, err = flags.GetString("result"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("oracle") {
		if cfg.Oracle, err = flags.GetString("oracle"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("bus") {
		if cfg.Bus, err = flags.GetString("bus"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("redis-addr") {
		if cfg.RedisAddr, err = flags.GetString("redis-addr"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("no-history") {
		noHistory, err := flags.GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.SaveToDB = !noHistory
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	cfg.Dictionary = args[0]
	cfg.TargetHash = args[1]

	return cfg, nil
}

// newBusFactory returns the cancellation transport of cfg and a function
// releasing it. Connecting to redis is left to the factory, which the job
// calls after its preconditions passed.
func newBusFactory(cfg *config.Config, logger *slog.Logger) (bus.Factory, func()) {
	if cfg.Bus != bus.KindRedis {
		return bus.LocalFactory(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	factory := bus.RedisFactory(client,
		bus.WithRedisLogger(logger),
		bus.WithPublishTimeout(cfg.PublishTimeout),
	)
	release := func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", "error", err)
		}
	}
	return factory, release
}

// runSearch runs one job and reports it.
func runSearch(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	o, err := oracle.Get(cfg.Oracle)
	if err != nil {
		return err
	}

	factory, release := newBusFactory(cfg, logger)
	defer release()

	job, err := finder.NewJob(cfg.Dictionary, cfg.TargetHash,
		finder.WithWorkers(cfg.Workers),
		finder.WithOverlap(cfg.Overlap),
		finder.WithOracle(o),
		finder.WithResultPath(cfg.ResultPath),
		finder.WithBus(cfg.Bus, factory),
		finder.WithLogger(logger),
		finder.WithDiagnostics(stderr),
	)
	if err != nil {
		return err
	}

	jobReport, runErr := job.Run(ctx)
	if jobReport == nil {
		return runErr
	}

	if err := outputReport(cfg, jobReport, stdout); err != nil {
		logger.Error("report failed", "error", err)
	}

	if cfg.SaveToDB {
		// History is recorded with a fresh context so an interrupted job is still saved.
		if err := saveJobReport(context.WithoutCancel(ctx), cfg, jobReport, logger); err != nil {
			logger.Warn("failed to save job to history", "error", err)
		}
	}

	if errors.Is(runErr, context.Canceled) {
		return errors.New("search interrupted")
	}
	return runErr
}

// outputReport writes the job report in the requested format.
func outputReport(cfg *config.Config, jobReport *model.JobReport, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports carry the recovered password: owner-only permissions.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	_, err := report.NewWriter(output, reportFormat(cfg.JSONReport, cfg.MarkdownReport)).Write(jobReport)
	return err
}

func reportFormat(jsonReport, markdownReport bool) report.Format {
	switch {
	case jsonReport:
		return report.FormatJSON
	case markdownReport:
		return report.FormatMarkdown
	default:
		return report.FormatText
	}
}

// saveJobReport records the job in the history database.
func saveJobReport(ctx context.Context, cfg *config.Config, jobReport *model.JobReport, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.SaveJob(ctx, jobReport); err != nil {
		return err
	}
	logger.Info("job saved to history", "job", jobReport.ID, "db", db.Path())
	return nil
}
