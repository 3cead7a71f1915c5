package usecase

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/twitterclarets/clarets-bot/internal/domain/fixture"
	"github.com/twitterclarets/clarets-bot/internal/domain/standings"
)

// TweetLimit is the platform's maximum tweet length in characters.
const TweetLimit = 280

// MakeDateReadable renders a kickoff time as a day string like
// "Sat 1st Jan" and a 12-hour clock string like "8:00 PM". The time must
// already be in the target civil zone.
func MakeDateReadable(t time.Time) (day string, clock string) {
	d := t.Day()
	day = fmt.Sprintf("%s %d%s %s", t.Format("Mon"), d, ordinalSuffix(d), t.Format("Jan"))
	clock = t.Format("3:04 PM")
	return day, clock
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// AppendHashtag terminates a tweet with the account hashtag. It is applied
// unconditionally, even to empty text.
func AppendHashtag(text, tag string) string {
	return text + "\n\n#" + tag
}

// HomeOrAway describes the tracked team's side of a fixture.
func HomeOrAway(fix fixture.Fixture, teamID int64) (string, error) {
	switch teamID {
	case fix.HomeTeamID:
		return "at home", nil
	case fix.AwayTeamID:
		return "away", nil
	default:
		return "", fmt.Errorf("team id=%d is not participating in %s(%d) vs %s(%d)",
			teamID, fix.HomeTeamName, fix.HomeTeamID, fix.AwayTeamName, fix.AwayTeamID)
	}
}

// FormatNextFixture builds the fixture announcement body.
func FormatNextFixture(opponent, side, venue, day, clock string) string {
	if strings.TrimSpace(venue) == "" {
		venue = "TBC"
	}
	return fmt.Sprintf("The next match is against %s, %s!\n\n🏟️ %s\n📅 %s\n⏰ %s",
		opponent, side, venue, day, clock)
}

// OppositionStats is the flattened standings view of a single opponent,
// ready for interpolation into the stats tweet.
type OppositionStats struct {
	Opponent     string
	Position     int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	Form         string
	TopScorer    string
}

// CollectStats resolves the opponent in the standings table and gathers the
// statistics the stats tweet needs. Any lookup failure propagates.
func CollectStats(table standings.Table, opponent string) (OppositionStats, error) {
	row, err := table.Lookup(opponent)
	if err != nil {
		return OppositionStats{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return OppositionStats{
		Opponent:     row.Squad,
		Position:     row.Rank,
		Wins:         row.Won,
		Draws:        row.Drawn,
		Losses:       row.Lost,
		GoalsFor:     row.GoalsFor,
		GoalsAgainst: row.GoalsAgainst,
		Form:         standings.FormEmoji(row.LastFive),
		TopScorer:    row.TopScorer,
	}, nil
}

// FormatOppositionStats builds the matchday stats body and drops trailing
// lines until it fits within limit characters. Earlier lines are never
// sacrificed for later ones.
func FormatOppositionStats(stats OppositionStats, limit int) string {
	text := fmt.Sprintf(
		"Today we face %s!\n\nHow their season is going:\n\n📈 Position: %d\n✅ Wins: %d\n➖ Draws: %d\n❌ Losses: %d\n⚽ Goals scored: %d\n🥅 Goals conceded: %d\n📉 Form: %s\n🎯 Top scorer: %s",
		stats.Opponent,
		stats.Position,
		stats.Wins,
		stats.Draws,
		stats.Losses,
		stats.GoalsFor,
		stats.GoalsAgainst,
		stats.Form,
		stats.TopScorer,
	)
	return truncateLines(text, limit)
}

func truncateLines(text string, limit int) string {
	for utf8.RuneCountInString(text) > limit {
		cut := strings.LastIndexByte(text, '\n')
		if cut < 0 {
			return ""
		}
		text = text[:cut]
	}
	return text
}
