package standings

import (
	"errors"
	"fmt"
	"strings"
)

var ErrTeamNotFound = errors.New("team not found in standings table")

// Row is one team's entry in a scraped league table. Squad is the table's
// canonical label for the team, usually shorter than the official name.
type Row struct {
	Rank           int
	Squad          string
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	LastFive       string // most recent five results, e.g. "WWDLW"
	TopScorer      string
}

// Table is an ordered standings snapshot. Squad labels are unique within
// a snapshot.
type Table struct {
	rows []Row
}

// NewTable builds a snapshot, trimming squad labels (scraped cells carry
// stray whitespace).
func NewTable(rows []Row) Table {
	out := make([]Row, len(rows))
	for i, row := range rows {
		row.Squad = strings.TrimSpace(row.Squad)
		out[i] = row
	}
	return Table{rows: out}
}

func (t Table) Rows() []Row {
	return t.rows
}

func (t Table) Len() int {
	return len(t.rows)
}

// FindTeam resolves a free-form team name ("Preston North End FC") to the
// squad label used in the table ("Preston"). It widens a search prefix one
// whitespace token at a time and stops as soon as exactly one squad label
// contains the prefix as a substring. A prefix that matches nothing can
// never recover by growing, so that case fails immediately.
func (t Table) FindTeam(name string) (string, error) {
	prefix := ""
	for _, token := range strings.Fields(name) {
		if prefix == "" {
			prefix = token
		} else {
			prefix += " " + token
		}

		matched := ""
		count := 0
		for _, row := range t.rows {
			if strings.Contains(row.Squad, prefix) {
				matched = row.Squad
				count++
			}
		}

		switch {
		case count == 1:
			return matched, nil
		case count == 0:
			return "", fmt.Errorf("%w: no squad contains %q", ErrTeamNotFound, prefix)
		}
		// still ambiguous, extend the prefix
	}
	return "", fmt.Errorf("%w: %q is ambiguous", ErrTeamNotFound, name)
}

// Lookup resolves name via FindTeam and returns the matching row.
func (t Table) Lookup(name string) (Row, error) {
	squad, err := t.FindTeam(name)
	if err != nil {
		return Row{}, err
	}
	for _, row := range t.rows {
		if row.Squad == squad {
			return row, nil
		}
	}
	return Row{}, fmt.Errorf("%w: no row for squad %q", ErrTeamNotFound, squad)
}

func (t Table) Position(name string) (int, error) {
	row, err := t.Lookup(name)
	return row.Rank, err
}

func (t Table) Played(name string) (int, error) {
	row, err := t.Lookup(name)
	return row.Played, err
}

func (t Table) Wins(name string) (int, error) {
	row, err := t.Lookup(name)
	return row.Won, err
}

func (t Table) Draws(name string) (int, error) {
	row, err := t.Lookup(name)
	return row.Drawn, err
}

func (t Table) Losses(name string) (int, error) {
	row, err := t.Lookup(name)
	return row.Lost, err
}

func (t Table) GoalsFor(name string) (int, error) {
	row, err := t.Lookup(name)
	return row.GoalsFor, err
}

func (t Table) GoalsAgainst(name string) (int, error) {
	row, err := t.Lookup(name)
	return row.GoalsAgainst, err
}

func (t Table) GoalDifference(name string) (int, error) {
	row, err := t.Lookup(name)
	return row.GoalDifference, err
}

func (t Table) Points(name string) (int, error) {
	row, err := t.Lookup(name)
	return row.Points, err
}

func (t Table) Form(name string) (string, error) {
	row, err := t.Lookup(name)
	return row.LastFive, err
}

func (t Table) TopScorer(name string) (string, error) {
	row, err := t.Lookup(name)
	return row.TopScorer, err
}

// FormEmoji renders a W/D/L form string as traffic-light emoji, in order.
// Characters outside W, D and L pass through untouched.
func FormEmoji(form string) string {
	var b strings.Builder
	for _, r := range form {
		switch r {
		case 'W':
			b.WriteString("🟢")
		case 'D':
			b.WriteString("🟡")
		case 'L':
			b.WriteString("🔴")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
