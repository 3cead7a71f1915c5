package fbref

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/twitterclarets/clarets-bot/internal/domain/standings"
	"github.com/twitterclarets/clarets-bot/internal/platform/cache"
	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
)

// The overall league table carries a season-qualified id like
// "results2022-2023101_overall".
var overallTableID = regexp.MustCompile(`results.*overall`)

const userAgent = "clarets-bot/1.0"

type ClientConfig struct {
	HTTPClient *http.Client
	URL        string
	Timeout    time.Duration
	CacheTTL   time.Duration
	Logger     *logging.Logger
}

// Client scrapes the competition's overall standings table. Snapshots are
// cached for a short TTL so cron mode does not hammer the source.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *logging.Logger
	cache      *cache.Store
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

	return &Client{
		httpClient: httpClient,
		url:        strings.TrimSpace(cfg.URL),
		logger:     logger,
		cache:      cache.NewStore(cfg.CacheTTL),
	}
}

func (c *Client) Standings(ctx context.Context) (standings.Table, error) {
	value, err := c.cache.GetOrLoad(ctx, c.url, func(ctx context.Context) (any, error) {
		return c.scrape(ctx)
	})
	if err != nil {
		return standings.Table{}, err
	}

	table, ok := value.(standings.Table)
	if !ok {
		return standings.Table{}, fmt.Errorf("unexpected cached value type %T", value)
	}
	return table, nil
}

func (c *Client) scrape(ctx context.Context) (standings.Table, error) {
	if c.url == "" {
		return standings.Table{}, fmt.Errorf("standings url is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return standings.Table{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return standings.Table{}, fmt.Errorf("fetch standings page: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return standings.Table{}, fmt.Errorf("standings page status=%d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return standings.Table{}, fmt.Errorf("parse standings page: %w", err)
	}

	table, err := parseOverallTable(doc)
	if err != nil {
		return standings.Table{}, err
	}
	c.logger.Debug("standings scraped", "url", c.url, "rows", table.Len())
	return table, nil
}

func parseOverallTable(doc *goquery.Document) (standings.Table, error) {
	tableSel := doc.Find("table").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id, ok := s.Attr("id")
		return ok && overallTableID.MatchString(id)
	}).First()
	if tableSel.Length() == 0 {
		return standings.Table{}, fmt.Errorf("overall standings table not found")
	}

	rows := make([]standings.Row, 0, 24)
	var rowErr error
	tableSel.Find("tbody tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		if tr.HasClass("thead") {
			return true
		}
		squad := cellText(tr, "team")
		if squad == "" {
			return true
		}

		row, err := parseRow(tr, squad)
		if err != nil {
			rowErr = err
			return false
		}
		rows = append(rows, row)
		return true
	})
	if rowErr != nil {
		return standings.Table{}, rowErr
	}

	if len(rows) == 0 {
		return standings.Table{}, fmt.Errorf("overall standings table has no rows")
	}
	return standings.NewTable(rows), nil
}

// parseRow rejects rows with unparseable stat cells. A layout change on the
// source page must surface as an error, never as a zeroed statistic.
func parseRow(tr *goquery.Selection, squad string) (standings.Row, error) {
	p := rowParser{tr: tr}
	row := standings.Row{
		Rank:           p.intStat("rank"),
		Squad:          squad,
		Played:         p.intStat("games"),
		Won:            p.intStat("wins"),
		Drawn:          p.intStat("ties"),
		Lost:           p.intStat("losses"),
		GoalsFor:       p.intStat("goals_for"),
		GoalsAgainst:   p.intStat("goals_against"),
		GoalDifference: p.intStat("goal_diff"),
		Points:         p.intStat("points"),
		LastFive:       parseForm(cellText(tr, "last_5")),
		TopScorer:      cellText(tr, "top_team_scorers"),
	}
	if p.err != nil {
		return standings.Row{}, fmt.Errorf("squad %q: %w", squad, p.err)
	}
	return row, nil
}

// rowParser reads integer stat cells, remembering the first failure.
type rowParser struct {
	tr  *goquery.Selection
	err error
}

func (p *rowParser) intStat(stat string) int {
	text := cellText(p.tr, stat)
	text = strings.ReplaceAll(text, ",", "")
	// goal difference renders as "+23" or "−12"
	text = strings.TrimPrefix(text, "+")
	text = strings.ReplaceAll(text, "−", "-")

	value, err := strconv.Atoi(text)
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("stat %q has non-numeric cell %q", stat, cellText(p.tr, stat))
		}
		return 0
	}
	return value
}

func cellText(tr *goquery.Selection, stat string) string {
	return strings.TrimSpace(tr.Find(`[data-stat="` + stat + `"]`).First().Text())
}

// parseForm collapses the "Last 5" cell (rendered as spaced result links,
// "W W D L W") to a compact result string.
func parseForm(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch r {
		case 'W', 'D', 'L':
			b.WriteRune(r)
		}
	}
	return b.String()
}
