package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"slicesim/internal/api"
	"slicesim/internal/config"
	"slicesim/internal/logging"
	"slicesim/internal/sim"
)

var (
	serveConfigPath string
	serveSchemaPath string
	serveTick       time.Duration
	serveListen     string
	servePrintOnly  bool
	serveTUI        bool
	serveLogFile    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the real-time slice simulator and API",
	Long:  "serve starts the tick loop, the REST/WebSocket API, and the configured snapshot sinks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(serveConfigPath, serveSchemaPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("tick") {
			cfg.TickInterval = config.Duration(serveTick)
		}
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			cfg.TickInterval = config.Duration(d)
		}
		if serveListen != "" {
			cfg.ListenAddr = serveListen
		}

		logger := logging.New()
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()

		writer, st, cleanup, err := newWriters(cfg, servePrintOnly, serveTUI, serveLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		simulator := sim.NewSimulator(cfg, writer, nil)
		if err := simulator.Seed(cfg.SeedDevices); err != nil {
			return err
		}
		if st != nil {
			if err := st.StartSession(cfg); err != nil {
				logger.Error("session record failed", "err", err)
			}
		}

		srv := api.NewServer(simulator, st, cfg, logger)
		go func() {
			logger.Info("API listening", "addr", cfg.ListenAddr)
			if err := srv.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
				logger.Error("API server failed", "err", err)
				cancel()
			}
		}()

		simulator.Start(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigs:
		case <-ctx.Done():
		}

		simulator.Stop()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("API shutdown failed", "err", err)
		}
		logger.Info("slice simulation stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	serveCmd.Flags().StringVar(&serveSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	serveCmd.Flags().DurationVar(&serveTick, "tick", 2*time.Second, "Snapshot tick interval (e.g. 500ms, 2s)")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "API listen address (overrides config)")
	serveCmd.Flags().BoolVar(&servePrintOnly, "print-only", false, "Print snapshots to STDOUT instead of writing to DB")
	serveCmd.Flags().BoolVar(&serveTUI, "tui", false, "Render snapshots in a terminal dashboard")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "Path to export snapshot logs (JSONL)")
}
