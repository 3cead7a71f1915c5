package usecase

import (
	"context"

	"github.com/twitterclarets/clarets-bot/internal/domain/fixture"
	"github.com/twitterclarets/clarets-bot/internal/domain/standings"
)

// FixtureSource returns the tracked team's next scheduled fixture, or nil
// when the calendar is empty.
type FixtureSource interface {
	NextFixture(ctx context.Context, teamID int64) (*fixture.Fixture, error)
}

// StandingsSource produces a fresh standings snapshot for the configured
// competition.
type StandingsSource interface {
	Standings(ctx context.Context) (standings.Table, error)
}

// Publisher posts a tweet and returns its id. A rejection for repeated
// content is reported as ErrDuplicateContent.
type Publisher interface {
	Post(ctx context.Context, text string) (string, error)
}

// StateStore holds the single date string that survives across runs.
type StateStore interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, value string) error
}

// Competition and Team are the listing shapes used by the CSV export tool.
type Competition struct {
	ID   int64
	Name string
}

type Team struct {
	ID   int64
	Name string
}

// CompetitionSource lists competitions and their teams for the export tool.
type CompetitionSource interface {
	Competitions(ctx context.Context) ([]Competition, error)
	CompetitionTeams(ctx context.Context, competitionID int64) ([]Team, error)
}

// Tweet is a published post as returned by the account timeline.
type Tweet struct {
	ID   string
	Text string
}

// TweetAdmin exposes the account-maintenance surface used by the purge tool.
type TweetAdmin interface {
	Timeline(ctx context.Context) ([]Tweet, error)
	Delete(ctx context.Context, id string) error
}
