package config

import (
	"strings"
	"testing"
	"time"

	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TEAM_ID", "328")
	t.Setenv("FOOTBALLDATA_TOKEN", "token-abc")
	t.Setenv("STANDINGS_URL", "https://example.org/comps/10/stats")
	t.Setenv("TWITTER_CONSUMER_KEY", "ck")
	t.Setenv("TWITTER_CONSUMER_SECRET", "cs")
	t.Setenv("TWITTER_ACCESS_TOKEN", "at")
	t.Setenv("TWITTER_ACCESS_SECRET", "as")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TeamID != 328 {
		t.Fatalf("TeamID = %d, want 328", cfg.TeamID)
	}
	if cfg.Hashtag != "twitterclarets" {
		t.Fatalf("Hashtag = %q", cfg.Hashtag)
	}
	if cfg.Timezone != "Europe/London" {
		t.Fatalf("Timezone = %q", cfg.Timezone)
	}
	if cfg.StateFile != "fixture_date.txt" {
		t.Fatalf("StateFile = %q", cfg.StateFile)
	}
	if cfg.CronSpec != "0 10 * * *" {
		t.Fatalf("CronSpec = %q", cfg.CronSpec)
	}
	if cfg.FootballDataTimeout != 10*time.Second {
		t.Fatalf("FootballDataTimeout = %s", cfg.FootballDataTimeout)
	}
	if cfg.StandingsCacheTTL != time.Hour {
		t.Fatalf("StandingsCacheTTL = %s", cfg.StandingsCacheTTL)
	}
	if !cfg.TwitterEnabled {
		t.Fatal("TwitterEnabled = false, want true")
	}
	if cfg.PurgeWorkers != 4 {
		t.Fatalf("PurgeWorkers = %d, want 4", cfg.PurgeWorkers)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.Location().String() != "Europe/London" {
		t.Fatalf("Location() = %q", cfg.Location())
	}
}

func TestLoadHashtagStripsLeadingHash(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HASHTAG", "#utc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Hashtag != "utc" {
		t.Fatalf("Hashtag = %q, want utc", cfg.Hashtag)
	}
}

func TestLoadMissingTeamID(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TEAM_ID", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "TEAM_ID") {
		t.Fatalf("Load() error = %v, want TEAM_ID error", err)
	}
}

func TestLoadMissingToken(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FOOTBALLDATA_TOKEN", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "FOOTBALLDATA_TOKEN") {
		t.Fatalf("Load() error = %v, want FOOTBALLDATA_TOKEN error", err)
	}
}

func TestLoadInvalidTimezone(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TIMEZONE", "Mars/Olympus")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "TIMEZONE") {
		t.Fatalf("Load() error = %v, want TIMEZONE error", err)
	}
}

func TestLoadTwitterDisabledSkipsCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TWITTER_ENABLED", "false")
	t.Setenv("TWITTER_CONSUMER_KEY", "")
	t.Setenv("TWITTER_CONSUMER_SECRET", "")
	t.Setenv("TWITTER_ACCESS_TOKEN", "")
	t.Setenv("TWITTER_ACCESS_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TwitterEnabled {
		t.Fatal("TwitterEnabled = true, want false")
	}
}

func TestLoadTwitterEnabledRequiresCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TWITTER_ACCESS_SECRET", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "TWITTER_ACCESS_SECRET") {
		t.Fatalf("Load() error = %v, want TWITTER_ACCESS_SECRET error", err)
	}
}

func TestLoadInvalidAppEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "testing")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "APP_ENV") {
		t.Fatalf("Load() error = %v, want APP_ENV error", err)
	}
}
