package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for every binary in the module.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string

	TeamID    int64
	Hashtag   string
	Timezone  string
	StateFile string
	CronSpec  string

	FootballDataBaseURL             string
	FootballDataToken               string
	FootballDataTimeout             time.Duration
	FootballDataMaxRetries          int
	FootballDataCircuitEnabled      bool
	FootballDataCircuitFailureCount int
	FootballDataCircuitOpenTimeout  time.Duration

	StandingsURL      string
	StandingsTimeout  time.Duration
	StandingsCacheTTL time.Duration

	TwitterEnabled        bool
	TwitterBaseURL        string
	TwitterConsumerKey    string
	TwitterConsumerSecret string
	TwitterAccessToken    string
	TwitterAccessSecret   string
	TwitterTimeout        time.Duration

	ExportDir    string
	PurgeWorkers int

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	teamID, err := getEnvAsInt64("TEAM_ID", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse TEAM_ID: %w", err)
	}
	if teamID <= 0 {
		return Config{}, fmt.Errorf("TEAM_ID is required and must be > 0")
	}

	hashtag := strings.TrimPrefix(strings.TrimSpace(getEnv("HASHTAG", "twitterclarets")), "#")
	if hashtag == "" {
		return Config{}, fmt.Errorf("HASHTAG must not be empty")
	}

	timezone := strings.TrimSpace(getEnv("TIMEZONE", "Europe/London"))
	if _, err := time.LoadLocation(timezone); err != nil {
		return Config{}, fmt.Errorf("parse TIMEZONE: %w", err)
	}

	stateFile := strings.TrimSpace(getEnv("STATE_FILE", "fixture_date.txt"))
	if stateFile == "" {
		return Config{}, fmt.Errorf("STATE_FILE must not be empty")
	}

	footballDataToken := strings.TrimSpace(getEnv("FOOTBALLDATA_TOKEN", ""))
	if footballDataToken == "" {
		return Config{}, fmt.Errorf("FOOTBALLDATA_TOKEN is required")
	}
	footballDataTimeout, err := time.ParseDuration(getEnv("FOOTBALLDATA_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_TIMEOUT: %w", err)
	}
	footballDataMaxRetries, err := getEnvAsInt("FOOTBALLDATA_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_MAX_RETRIES: %w", err)
	}
	if footballDataMaxRetries < 0 {
		return Config{}, fmt.Errorf("FOOTBALLDATA_MAX_RETRIES must be >= 0")
	}
	footballDataCircuitEnabled, err := strconv.ParseBool(getEnv("FOOTBALLDATA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_CIRCUIT_ENABLED: %w", err)
	}
	footballDataCircuitFailureCount, err := getEnvAsInt("FOOTBALLDATA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	footballDataCircuitOpenTimeout, err := time.ParseDuration(getEnv("FOOTBALLDATA_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALLDATA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	standingsURL := strings.TrimSpace(getEnv("STANDINGS_URL", ""))
	if standingsURL == "" {
		return Config{}, fmt.Errorf("STANDINGS_URL is required")
	}
	standingsTimeout, err := time.ParseDuration(getEnv("STANDINGS_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STANDINGS_TIMEOUT: %w", err)
	}
	standingsCacheTTL, err := time.ParseDuration(getEnv("STANDINGS_CACHE_TTL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STANDINGS_CACHE_TTL: %w", err)
	}

	twitterEnabled, err := strconv.ParseBool(getEnv("TWITTER_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TWITTER_ENABLED: %w", err)
	}
	twitterConsumerKey := strings.TrimSpace(getEnv("TWITTER_CONSUMER_KEY", ""))
	twitterConsumerSecret := strings.TrimSpace(getEnv("TWITTER_CONSUMER_SECRET", ""))
	twitterAccessToken := strings.TrimSpace(getEnv("TWITTER_ACCESS_TOKEN", ""))
	twitterAccessSecret := strings.TrimSpace(getEnv("TWITTER_ACCESS_SECRET", ""))
	if twitterEnabled {
		switch {
		case twitterConsumerKey == "":
			return Config{}, fmt.Errorf("TWITTER_CONSUMER_KEY is required when TWITTER_ENABLED=true")
		case twitterConsumerSecret == "":
			return Config{}, fmt.Errorf("TWITTER_CONSUMER_SECRET is required when TWITTER_ENABLED=true")
		case twitterAccessToken == "":
			return Config{}, fmt.Errorf("TWITTER_ACCESS_TOKEN is required when TWITTER_ENABLED=true")
		case twitterAccessSecret == "":
			return Config{}, fmt.Errorf("TWITTER_ACCESS_SECRET is required when TWITTER_ENABLED=true")
		}
	}
	twitterTimeout, err := time.ParseDuration(getEnv("TWITTER_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TWITTER_TIMEOUT: %w", err)
	}

	purgeWorkers, err := getEnvAsInt("PURGE_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse PURGE_WORKERS: %w", err)
	}
	if purgeWorkers <= 0 {
		return Config{}, fmt.Errorf("PURGE_WORKERS must be > 0")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "clarets-bot"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),

		TeamID:    teamID,
		Hashtag:   hashtag,
		Timezone:  timezone,
		StateFile: stateFile,
		CronSpec:  strings.TrimSpace(getEnv("CRON_SPEC", "0 10 * * *")),

		FootballDataBaseURL:             strings.TrimSpace(getEnv("FOOTBALLDATA_BASE_URL", "")),
		FootballDataToken:               footballDataToken,
		FootballDataTimeout:             footballDataTimeout,
		FootballDataMaxRetries:          footballDataMaxRetries,
		FootballDataCircuitEnabled:      footballDataCircuitEnabled,
		FootballDataCircuitFailureCount: footballDataCircuitFailureCount,
		FootballDataCircuitOpenTimeout:  footballDataCircuitOpenTimeout,

		StandingsURL:      standingsURL,
		StandingsTimeout:  standingsTimeout,
		StandingsCacheTTL: standingsCacheTTL,

		TwitterEnabled:        twitterEnabled,
		TwitterBaseURL:        strings.TrimSpace(getEnv("TWITTER_BASE_URL", "")),
		TwitterConsumerKey:    twitterConsumerKey,
		TwitterConsumerSecret: twitterConsumerSecret,
		TwitterAccessToken:    twitterAccessToken,
		TwitterAccessSecret:   twitterAccessSecret,
		TwitterTimeout:        twitterTimeout,

		ExportDir:    strings.TrimSpace(getEnv("EXPORT_DIR", ".")),
		PurgeWorkers: purgeWorkers,

		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	return cfg, nil
}

// Location resolves the configured timezone. Load already validated it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func parseAppEnv(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case EnvDev, EnvStage, EnvProd:
		return v, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}
