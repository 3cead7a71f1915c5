package fixture

import (
	"fmt"
	"strings"
	"time"
)

const (
	CompetitionLeague = "LEAGUE"
	CompetitionCup    = "CUP"
)

// Competition identifies the tournament a fixture belongs to.
type Competition struct {
	ID   int64
	Name string
	Type string
}

// Fixture is one scheduled match, fetched fresh each run and never persisted
// beyond its date.
type Fixture struct {
	Date         time.Time
	HomeTeamID   int64
	AwayTeamID   int64
	HomeTeamName string
	AwayTeamName string
	Competition  Competition
	Venue        string
}

func NormalizeCompetitionType(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func (f Fixture) IsLeague() bool {
	return NormalizeCompetitionType(f.Competition.Type) == CompetitionLeague
}

// In returns a copy of the fixture with its kickoff converted to loc.
// The fixture source reports all timestamps in UTC.
func (f Fixture) In(loc *time.Location) Fixture {
	if loc == nil {
		return f
	}
	f.Date = f.Date.In(loc)
	return f
}

// IsMatchday reports whether the fixture kicks off on the same civil day
// as now. Both times must already be in the same location.
func (f Fixture) IsMatchday(now time.Time) bool {
	fy, fm, fd := f.Date.Date()
	ny, nm, nd := now.Date()
	return fy == ny && fm == nm && fd == nd
}

// Opposition returns the name of the team facing teamID in this fixture.
func (f Fixture) Opposition(teamID int64) (string, error) {
	switch teamID {
	case f.HomeTeamID:
		return f.AwayTeamName, nil
	case f.AwayTeamID:
		return f.HomeTeamName, nil
	default:
		return "", fmt.Errorf("team id=%d is not participating in %s(%d) vs %s(%d)",
			teamID, f.HomeTeamName, f.HomeTeamID, f.AwayTeamName, f.AwayTeamID)
	}
}
