package footballdata

import (
	"fmt"
	"time"

	"github.com/twitterclarets/clarets-bot/internal/domain/fixture"
)

type matchesEnvelope struct {
	Matches []matchItem `json:"matches"`
}

type matchItem struct {
	UTCDate     string          `json:"utcDate"`
	Status      string          `json:"status"`
	Venue       string          `json:"venue"`
	Competition competitionItem `json:"competition"`
	HomeTeam    teamItem        `json:"homeTeam"`
	AwayTeam    teamItem        `json:"awayTeam"`
}

type competitionItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type teamItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type competitionsEnvelope struct {
	Competitions []competitionItem `json:"competitions"`
}

type teamsEnvelope struct {
	Teams []teamItem `json:"teams"`
}

// mapMatch converts the provider shape to the domain fixture. utcDate is
// the only timestamp field the pipeline consumes; it is always UTC.
func mapMatch(item matchItem) (fixture.Fixture, error) {
	kickoff, err := time.Parse(time.RFC3339, item.UTCDate)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("parse utcDate %q: %w", item.UTCDate, err)
	}

	return fixture.Fixture{
		Date:         kickoff.UTC(),
		HomeTeamID:   item.HomeTeam.ID,
		AwayTeamID:   item.AwayTeam.ID,
		HomeTeamName: item.HomeTeam.Name,
		AwayTeamName: item.AwayTeam.Name,
		Competition: fixture.Competition{
			ID:   item.Competition.ID,
			Name: item.Competition.Name,
			Type: fixture.NormalizeCompetitionType(item.Competition.Type),
		},
		Venue: item.Venue,
	}, nil
}
