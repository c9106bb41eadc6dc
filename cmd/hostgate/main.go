package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "hostgate/cmd/hostgate/docs"
	"hostgate/internal/config"
	"hostgate/internal/logger"
	"hostgate/internal/whitelist"
	"hostgate/pkg/bootstrap"
	"hostgate/pkg/logging"
)

var (
	configFile string
)

// @title           hostgate API
// @version         1.0
// @description     Admission decisions and hostname rule management for game server proxies

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @schemes   http https

func main() {
	rootCmd := &cobra.Command{
		Use:   "hostgate",
		Short: "Hostname admission gate for game server proxies",
		Long:  "hostgate admits or rejects client connections by the virtual hostname they used to connect",
		RunE:  serveCmd().RunE,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (required)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(initCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfigFile() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	if env := os.Getenv("CONFIG_FILE"); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("config file is required, use --config flag or CONFIG_FILE environment variable")
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admission service",
		RunE: func(cmd *cobra.Command, args []string) error {
			earlyLog := logging.NewEarlyLog()

			path, err := resolveConfigFile()
			if err != nil {
				earlyLog.Error("%v", err)
				return err
			}

			loader := config.NewLoader(path)
			cfg, err := loader.Load()
			if err != nil {
				earlyLog.Error("Failed to load config: %v", err)
				return err
			}

			log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				earlyLog.Error("Failed to init logger: %v", err)
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log.InfowCtx(ctx, "Starting hostgate", "config", path)

			app := NewApp(loader, cfg, log)
			if err := app.Initialize(ctx); err != nil {
				log.ErrorwCtx(ctx, "Failed to initialize application", "error", err)
				_ = app.Shutdown(ctx)
				return err
			}

			log.InfowCtx(ctx, "Service running",
				"rules_count", app.rules.Store().Current().Len(),
				"notifications_enabled", app.dispatcher.Enabled(),
			)

			runErr := app.Run(ctx)
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				log.ErrorwCtx(ctx, "Service stopped with error", "error", runErr)
			}

			if err := app.Shutdown(context.Background()); err != nil {
				log.Errorw("Shutdown failed", "error", err)
			}

			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}
			log.Info("Service shutdown complete")
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check host[:port]...",
		Short: "Evaluate hostnames against the configured rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigFile()
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig(path)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			log := logger.NopLogger()
			dc := bootstrap.NewDatabaseConnector(cfg, log)
			source, err := openRuleSource(ctx, cfg, path, dc)
			if err != nil {
				return err
			}
			defer source.close(dc)

			patterns, err := source.repo.LoadPatterns(ctx)
			if err != nil {
				return err
			}

			set := whitelist.NewRuleSet(1, patterns)
			out := cmd.OutOrStdout()
			for _, host := range args {
				if rule, ok := set.Match(host); ok {
					fmt.Fprintf(out, "ALLOW\t%s\t%s\n", host, rule.Raw)
				} else {
					fmt.Fprintf(out, "DENY\t%s\n", host)
				}
			}
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default config and rules files if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigFile()
			if err != nil {
				return err
			}

			if err := config.WriteDefault(path); err != nil {
				return err
			}

			cfg, err := config.LoadConfig(path)
			if err != nil {
				return err
			}

			rulesPath := config.ResolvePath(path, cfg.Whitelist.File)
			if err := whitelist.WriteDefaultRules(rulesPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "config: %s\nrules: %s\n", path, rulesPath)
			return nil
		},
	}
}
