package app

import (
	"context"
	"fmt"
	"time"

	"github.com/twitterclarets/clarets-bot/external/fbref"
	"github.com/twitterclarets/clarets-bot/external/footballdata"
	"github.com/twitterclarets/clarets-bot/external/twitter"
	"github.com/twitterclarets/clarets-bot/internal/config"
	"github.com/twitterclarets/clarets-bot/internal/infrastructure/state"
	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
	"github.com/twitterclarets/clarets-bot/internal/platform/resilience"
	"github.com/twitterclarets/clarets-bot/internal/usecase"
)

// NewPipeline wires the daily matchday pipeline: fixture provider,
// standings scraper, tweet publisher and the persisted fixture-date state.
func NewPipeline(cfg config.Config, logger *logging.Logger) *usecase.PipelineService {
	fixtures := newFootballDataClient(cfg, logger)

	standingsSource := fbref.NewClient(fbref.ClientConfig{
		URL:      cfg.StandingsURL,
		Timeout:  cfg.StandingsTimeout,
		CacheTTL: cfg.StandingsCacheTTL,
		Logger:   logger,
	})

	var publisher usecase.Publisher
	if cfg.TwitterEnabled {
		publisher = newTwitterClient(cfg, logger)
	} else {
		publisher = &logPublisher{logger: logger}
	}

	tracker := usecase.NewFixtureTracker(state.NewFileStore(cfg.StateFile), logger)

	return usecase.NewPipelineService(
		fixtures,
		standingsSource,
		publisher,
		tracker,
		cfg.TeamID,
		cfg.Hashtag,
		cfg.Location(),
		logger,
	)
}

// NewExporter wires the CSV export tool against the fixture provider's
// competition listings.
func NewExporter(cfg config.Config, logger *logging.Logger) *usecase.ExportService {
	return usecase.NewExportService(newFootballDataClient(cfg, logger), cfg.ExportDir, logger)
}

// NewPurger wires the timeline purge tool. It requires live account
// credentials, so TWITTER_ENABLED=false is an error here.
func NewPurger(cfg config.Config, logger *logging.Logger) (*usecase.PurgeService, error) {
	if !cfg.TwitterEnabled {
		return nil, fmt.Errorf("purge requires TWITTER_ENABLED=true")
	}
	return usecase.NewPurgeService(newTwitterClient(cfg, logger), cfg.PurgeWorkers, logger), nil
}

func newFootballDataClient(cfg config.Config, logger *logging.Logger) *footballdata.Client {
	return footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:    cfg.FootballDataBaseURL,
		Token:      cfg.FootballDataToken,
		Timeout:    cfg.FootballDataTimeout,
		MaxRetries: cfg.FootballDataMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailureCount,
			OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
		},
	})
}

func newTwitterClient(cfg config.Config, logger *logging.Logger) *twitter.Client {
	return twitter.NewClient(twitter.ClientConfig{
		BaseURL:        cfg.TwitterBaseURL,
		ConsumerKey:    cfg.TwitterConsumerKey,
		ConsumerSecret: cfg.TwitterConsumerSecret,
		AccessToken:    cfg.TwitterAccessToken,
		AccessSecret:   cfg.TwitterAccessSecret,
		Timeout:        cfg.TwitterTimeout,
		Logger:         logger,
	})
}

// logPublisher stands in for the live account when posting is disabled.
// The composed tweet still goes through the full pipeline and ends up in
// the logs instead of on the timeline.
type logPublisher struct {
	logger *logging.Logger
}

func (p *logPublisher) Post(_ context.Context, text string) (string, error) {
	p.logger.Info("dry-run tweet", "text", text)
	return fmt.Sprintf("dry-run-%d", time.Now().UnixNano()), nil
}
