package fbref

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
)

const sampleStandingsPage = `<!DOCTYPE html>
<html>
<body>
<table id="results2022-2023101_overall">
  <thead>
    <tr><th>Rk</th><th>Squad</th></tr>
  </thead>
  <tbody>
    <tr>
      <th scope="row" data-stat="rank">1</th>
      <td data-stat="team"><a href="/squads/x">Burnley</a></td>
      <td data-stat="games">46</td>
      <td data-stat="wins">29</td>
      <td data-stat="ties">14</td>
      <td data-stat="losses">3</td>
      <td data-stat="goals_for">87</td>
      <td data-stat="goals_against">35</td>
      <td data-stat="goal_diff">+52</td>
      <td data-stat="points">101</td>
      <td data-stat="last_5"><a>W</a> <a>W</a> <a>D</a> <a>W</a> <a>W</a></td>
      <td data-stat="top_team_scorers"><a>Nathan Tella</a> - 17</td>
    </tr>
    <tr class="thead"><td data-stat="team">Squad</td></tr>
    <tr>
      <th scope="row" data-stat="rank">2</th>
      <td data-stat="team"><a href="/squads/y">Sheffield Utd</a></td>
      <td data-stat="games">46</td>
      <td data-stat="wins">28</td>
      <td data-stat="ties">7</td>
      <td data-stat="losses">11</td>
      <td data-stat="goals_for">73</td>
      <td data-stat="goals_against">39</td>
      <td data-stat="goal_diff">+34</td>
      <td data-stat="points">91</td>
      <td data-stat="last_5"><a>L</a> <a>W</a> <a>W</a> <a>L</a> <a>D</a></td>
      <td data-stat="top_team_scorers"><a>Iliman Ndiaye</a> - 14</td>
    </tr>
  </tbody>
</table>
</body>
</html>`

func TestStandingsParsesOverallTable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleStandingsPage))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		URL:      srv.URL,
		Timeout:  2 * time.Second,
		CacheTTL: time.Minute,
		Logger:   logging.NewNop(),
	})

	table, err := client.Standings(context.Background())
	if err != nil {
		t.Fatalf("Standings() error = %v", err)
	}
	if got := table.Len(); got != 2 {
		t.Fatalf("table.Len() = %d, want 2", got)
	}

	row, err := table.Lookup("Burnley")
	if err != nil {
		t.Fatalf("Lookup(Burnley) error = %v", err)
	}
	if row.Rank != 1 || row.Played != 46 || row.Won != 29 || row.Drawn != 14 || row.Lost != 3 {
		t.Fatalf("unexpected record row: %+v", row)
	}
	if row.GoalsFor != 87 || row.GoalsAgainst != 35 || row.GoalDifference != 52 || row.Points != 101 {
		t.Fatalf("unexpected scoring row: %+v", row)
	}
	if row.LastFive != "WWDWW" {
		t.Fatalf("row.LastFive = %q, want WWDWW", row.LastFive)
	}
	if row.TopScorer != "Nathan Tella - 17" {
		t.Fatalf("row.TopScorer = %q", row.TopScorer)
	}

	second, err := table.Lookup("Sheffield Utd")
	if err != nil {
		t.Fatalf("Lookup(Sheffield Utd) error = %v", err)
	}
	if second.Rank != 2 || second.LastFive != "LWWLD" {
		t.Fatalf("unexpected second row: %+v", second)
	}
}

func TestStandingsUsesCache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(sampleStandingsPage))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		URL:      srv.URL,
		Timeout:  2 * time.Second,
		CacheTTL: time.Minute,
		Logger:   logging.NewNop(),
	})

	for i := 0; i < 3; i++ {
		if _, err := client.Standings(context.Background()); err != nil {
			t.Fatalf("Standings() call %d error = %v", i, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("origin hits = %d, want 1", got)
	}
}

func TestStandingsRejectsNonNumericCell(t *testing.T) {
	t.Parallel()

	// a layout change that mangles a stat cell must fail the fetch, not
	// feed a zeroed statistic into a tweet
	mangled := strings.Replace(sampleStandingsPage, `<td data-stat="wins">29</td>`, `<td data-stat="wins">—</td>`, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(mangled))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		URL:      srv.URL,
		Timeout:  2 * time.Second,
		CacheTTL: time.Minute,
		Logger:   logging.NewNop(),
	})

	_, err := client.Standings(context.Background())
	if err == nil {
		t.Fatal("Standings() error = nil, want parse error")
	}
	if !strings.Contains(err.Error(), `"wins"`) || !strings.Contains(err.Error(), "Burnley") {
		t.Fatalf("Standings() error = %v, want stat and squad named", err)
	}
}

func TestStandingsMissingTable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>maintenance</p></body></html>`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		URL:      srv.URL,
		Timeout:  2 * time.Second,
		CacheTTL: time.Minute,
		Logger:   logging.NewNop(),
	})

	if _, err := client.Standings(context.Background()); err == nil {
		t.Fatal("Standings() error = nil, want missing table error")
	}
}

func TestStandingsNon200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		URL:      srv.URL,
		Timeout:  2 * time.Second,
		CacheTTL: time.Minute,
		Logger:   logging.NewNop(),
	})

	if _, err := client.Standings(context.Background()); err == nil {
		t.Fatal("Standings() error = nil, want status error")
	}
}
