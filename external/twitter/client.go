package twitter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/dghubble/oauth1"
	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
	"github.com/twitterclarets/clarets-bot/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	defaultBaseURL   = "https://api.twitter.com"
	timelinePageSize = "100"
	maxResponseBytes = 1 << 20
)

type ClientConfig struct {
	// HTTPClient overrides the OAuth1-signed client. Leave nil outside tests.
	HTTPClient     *http.Client
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
	Timeout        time.Duration
	Logger         *logging.Logger
}

// Client is a Twitter API v2 client for the bot's account. Requests are
// signed with the account's OAuth1 user context credentials.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		oauthConfig := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
		token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)
		httpClient = oauthConfig.Client(context.Background(), token)
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Post publishes a tweet and returns its id. A 403 for repeated content is
// reported as usecase.ErrDuplicateContent so callers can treat it as benign.
func (c *Client) Post(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: tweet text is empty", usecase.ErrInvalidInput)
	}

	body, err := sonic.Marshal(createTweetRequest{Text: text})
	if err != nil {
		return "", crerr.Wrap(err, "marshal tweet payload")
	}

	c.logger.Debug("twitter create request", "curl_preview", buildCurlPreview(http.MethodPost, c.baseURL+"/2/tweets", string(body)))

	raw, status, err := c.do(ctx, http.MethodPost, "/2/tweets", nil, strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("post tweet: %w", err)
	}
	if status == http.StatusForbidden && isDuplicateBody(raw) {
		return "", fmt.Errorf("%w: %s", usecase.ErrDuplicateContent, abbreviateBody(raw))
	}
	if status/100 != 2 {
		return "", fmt.Errorf("post tweet status=%d body=%s", status, abbreviateBody(raw))
	}

	var envelope createTweetResponse
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	if envelope.Data.ID == "" {
		return "", fmt.Errorf("create response has no tweet id body=%s", abbreviateBody(raw))
	}

	c.logger.Info("tweet published", "tweet_id", envelope.Data.ID, "chars", len([]rune(text)))
	return envelope.Data.ID, nil
}

// Delete removes one tweet from the account.
func (c *Client) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: tweet id is required", usecase.ErrInvalidInput)
	}

	raw, status, err := c.do(ctx, http.MethodDelete, "/2/tweets/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return fmt.Errorf("delete tweet id=%s: %w", id, err)
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: tweet id=%s", usecase.ErrNotFound, id)
	}
	if status/100 != 2 {
		return fmt.Errorf("delete tweet id=%s status=%d body=%s", id, status, abbreviateBody(raw))
	}

	var envelope deleteTweetResponse
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode delete response: %w", err)
	}
	if !envelope.Data.Deleted {
		return fmt.Errorf("tweet id=%s was not deleted", id)
	}
	return nil
}

// Timeline lists every tweet on the authenticated account, following
// pagination until the API stops returning a next token.
func (c *Client) Timeline(ctx context.Context) ([]usecase.Tweet, error) {
	userID, err := c.authenticatedUserID(ctx)
	if err != nil {
		return nil, err
	}

	var (
		tweets    []usecase.Tweet
		nextToken string
	)
	for {
		query := url.Values{"max_results": {timelinePageSize}}
		if nextToken != "" {
			query.Set("pagination_token", nextToken)
		}

		raw, status, err := c.do(ctx, http.MethodGet, "/2/users/"+url.PathEscape(userID)+"/tweets", query, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch timeline user_id=%s: %w", userID, err)
		}
		if status/100 != 2 {
			return nil, fmt.Errorf("fetch timeline user_id=%s status=%d body=%s", userID, status, abbreviateBody(raw))
		}

		var envelope timelineResponse
		if err := sonic.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("decode timeline response: %w", err)
		}
		for _, item := range envelope.Data {
			tweets = append(tweets, usecase.Tweet{ID: item.ID, Text: item.Text})
		}

		nextToken = envelope.Meta.NextToken
		if nextToken == "" {
			return tweets, nil
		}
	}
}

func (c *Client) authenticatedUserID(ctx context.Context) (string, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/2/users/me", nil, nil)
	if err != nil {
		return "", fmt.Errorf("fetch authenticated user: %w", err)
	}
	if status/100 != 2 {
		return "", fmt.Errorf("fetch authenticated user status=%d body=%s", status, abbreviateBody(raw))
	}

	var envelope userResponse
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return "", fmt.Errorf("decode user response: %w", err)
	}
	if envelope.Data.ID == "" {
		return "", fmt.Errorf("user response has no id body=%s", abbreviateBody(raw))
	}
	return envelope.Data.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) ([]byte, int, error) {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return raw, resp.StatusCode, nil
}

func isDuplicateBody(raw []byte) bool {
	return strings.Contains(strings.ToLower(string(raw)), "duplicate")
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 512 {
		return body[:512] + "..."
	}
	return body
}

// buildCurlPreview renders a copy-pasteable request for debug logs. The
// OAuth signature is never included.
func buildCurlPreview(method, fullURL, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -X ")
	_, _ = buf.WriteString(method)
	_, _ = buf.WriteString(" '")
	_, _ = buf.WriteString(fullURL)
	_, _ = buf.WriteString("' -H 'Authorization: OAuth ***' -H 'Content-Type: application/json'")
	if body != "" {
		_, _ = buf.WriteString(" -d '")
		_, _ = buf.WriteString(strings.ReplaceAll(body, "'", `'\''`))
		_, _ = buf.WriteString("'")
	}
	return buf.String()
}
