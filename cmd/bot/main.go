package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twitterclarets/clarets-bot/internal/app"
	"github.com/twitterclarets/clarets-bot/internal/config"
	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
	"github.com/twitterclarets/clarets-bot/internal/usecase"
)

const runTimeout = 2 * time.Minute

func main() {
	cronMode := flag.Bool("cron", false, "stay resident and run on the CRON_SPEC schedule instead of once")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer func() {
		_ = logger.Sync()
	}()
	logging.SetDefault(logger)

	pipeline := app.NewPipeline(cfg, logger)

	if !*cronMode {
		if err := runOnce(pipeline, logger); err != nil {
			os.Exit(1)
		}
		return
	}

	scheduler := cron.New(cron.WithLocation(cfg.Location()))
	if _, err := scheduler.AddFunc(cfg.CronSpec, func() {
		_ = runOnce(pipeline, logger)
	}); err != nil {
		logger.Error("invalid cron spec", "spec", cfg.CronSpec, "error", err)
		os.Exit(1)
	}

	logger.Info("scheduler starting", "spec", cfg.CronSpec, "timezone", cfg.Timezone)
	scheduler.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	<-scheduler.Stop().Done()
	logger.Info("scheduler stopped")
}

func runOnce(pipeline *usecase.PipelineService, logger *logging.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := pipeline.Run(ctx); err != nil {
		logger.Error("pipeline run failed", "error", err)
		return err
	}
	return nil
}
