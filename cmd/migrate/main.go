package main

import (
	"context"
	"fmt"
	"os"
	"taskManager/internal/config"
	"taskManager/internal/logger"
	"taskManager/internal/migrations"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `usage: migrate [--config path] [--steps n] up|down|version`

func main() {
	configPath := pflag.StringP("config", "c", "", "path to the yaml config file (default config.yml)")
	steps := pflag.Int("steps", 1, "number of migrations to roll back with down")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(*configPath, pflag.Arg(0), *steps); err != nil {
		logger.Error("Migrations: failed", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(configPath, command string, steps int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Logging.Development, cfg.Logging.Level); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := migrations.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	runner, err := migrations.NewRunner(db)
	if err != nil {
		db.Close()
		return err
	}
	defer runner.Close()

	switch command {
	case "up":
		err = runner.Up()
	case "down":
		err = runner.Down(steps)
	case "version":
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
	if err != nil {
		return err
	}

	version, dirty, err := runner.Version()
	if err != nil {
		return err
	}
	logger.Info("Migrations: done",
		zap.String("command", command),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}
