package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/twitterclarets/clarets-bot/internal/domain/fixture"
	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
	"github.com/twitterclarets/clarets-bot/internal/platform/resilience"
	"github.com/twitterclarets/clarets-bot/internal/usecase"
)

const defaultBaseURL = "https://api.football-data.org/v4"

var errFootballDataTransient = crerr.New("football-data transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the football-data.org v4 API. It serves both the
// pipeline (next fixture) and the export tool (competition/team listings).
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

// NextFixture returns the team's earliest scheduled fixture, or nil when
// the calendar has none.
func (c *Client) NextFixture(ctx context.Context, teamID int64) (*fixture.Fixture, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", usecase.ErrInvalidInput)
	}

	var envelope matchesEnvelope
	path := fmt.Sprintf("/teams/%d/matches", teamID)
	query := map[string]string{"status": "SCHEDULED", "limit": "1"}
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch next fixture team_id=%d: %w", teamID, err)
	}
	if len(envelope.Matches) == 0 {
		return nil, nil
	}

	fix, err := mapMatch(envelope.Matches[0])
	if err != nil {
		return nil, fmt.Errorf("map fixture team_id=%d: %w", teamID, err)
	}
	return &fix, nil
}

// Competitions lists every competition the API exposes.
func (c *Client) Competitions(ctx context.Context) ([]usecase.Competition, error) {
	var envelope competitionsEnvelope
	if err := c.doJSON(ctx, "/competitions", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch competitions: %w", err)
	}

	out := make([]usecase.Competition, 0, len(envelope.Competitions))
	for _, comp := range envelope.Competitions {
		out = append(out, usecase.Competition{ID: comp.ID, Name: comp.Name})
	}
	return out, nil
}

// CompetitionTeams lists the teams in one competition.
func (c *Client) CompetitionTeams(ctx context.Context, competitionID int64) ([]usecase.Team, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("%w: competition id must be greater than zero", usecase.ErrInvalidInput)
	}

	var envelope teamsEnvelope
	path := fmt.Sprintf("/competitions/%d/teams", competitionID)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams competition_id=%d: %w", competitionID, err)
	}

	out := make([]usecase.Team, 0, len(envelope.Teams))
	for _, team := range envelope.Teams {
		out = append(out, usecase.Team{ID: team.ID, Name: team.Name})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.Warn("football-data circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: fixture provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errFootballDataTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("X-Auth-Token", c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFootballDataTransient, sanitizeText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFootballDataTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: provider status=404 body=%s", usecase.ErrNotFound, abbreviateBody(raw))
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFootballDataTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.Warn("football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}

func sanitizeText(value, token string) string {
	value = strings.TrimSpace(value)
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return value
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 512 {
		return body[:512] + "..."
	}
	return body
}
