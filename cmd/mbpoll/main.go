package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fieldgrid/mbpoll/internal/config"
	"github.com/fieldgrid/mbpoll/internal/engine"
	"github.com/fieldgrid/mbpoll/internal/logging"
	"github.com/fieldgrid/mbpoll/internal/pool"
	"github.com/fieldgrid/mbpoll/internal/store"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "mbpoll",
		Short: "Poll Modbus devices on a fixed schedule and write decoded rows to Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to the YAML configuration file (overrides MB_CONFIG_PATH)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	env := config.LoadEnv()
	if configPath == "" {
		configPath = env.ConfigPath
	}
	if configPath == "" {
		return fmt.Errorf("mbpoll: no config path given (--config or MB_CONFIG_PATH)")
	}

	root, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("mbpoll: config: %w", err)
	}

	if env.LogLevel != "" {
		lvl, err := strconv.Atoi(env.LogLevel)
		if err != nil {
			return fmt.Errorf("mbpoll: MB_LOG_LEVEL: %w", err)
		}
		root.LogLevel = lvl
	}

	log := logging.New(root.LogLevel)

	db, err := store.Open(dsn(env), root.Table)
	if err != nil {
		return fmt.Errorf("mbpoll: connect store: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Reconcile(ctx, root); err != nil {
		return fmt.Errorf("mbpoll: reconcile schema: %w", err)
	}

	p := pool.New()
	defer p.Close()

	e := engine.New(root, p, log)

	log.Info("starting poll cycle", "devices", len(root.Devices), "scan_rate", root.ScanRate)
	err = e.Run(ctx, root.ScanRate, db)
	if err != nil && ctx.Err() != nil {
		log.Info("shutting down")
		return nil
	}
	return err
}

func dsn(env config.Env) string {
	d := "sslmode=disable"
	if env.PGHost != "" {
		d += fmt.Sprintf(" host=%s", env.PGHost)
	}
	if env.PGDatabase != "" {
		d += fmt.Sprintf(" dbname=%s", env.PGDatabase)
	}
	if env.PGUser != "" {
		d += fmt.Sprintf(" user=%s", env.PGUser)
	}
	if env.PGPassword != "" {
		d += fmt.Sprintf(" password=%s", env.PGPassword)
	}
	return d
}
