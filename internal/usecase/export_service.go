package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sourcegraph/conc/pool"
	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
)

// ExportService writes competition and team id listings to CSV files so an
// operator can look up the ids the bot needs configuring with.
type ExportService struct {
	source CompetitionSource
	dir    string
	logger *logging.Logger
}

func NewExportService(source CompetitionSource, dir string, logger *logging.Logger) *ExportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ExportService{source: source, dir: dir, logger: logger}
}

// WriteCompetitionIDs writes comp_ids.csv with every competition the
// fixture API exposes.
func (s *ExportService) WriteCompetitionIDs(ctx context.Context) (string, error) {
	comps, err := s.source.Competitions(ctx)
	if err != nil {
		return "", fmt.Errorf("list competitions: %w", err)
	}

	path := filepath.Join(s.dir, "comp_ids.csv")
	records := make([][]string, 0, len(comps)+1)
	records = append(records, []string{"comp_id", "comp_name"})
	for _, comp := range comps {
		records = append(records, []string{strconv.FormatInt(comp.ID, 10), comp.Name})
	}

	if err := writeCSV(path, records); err != nil {
		return "", err
	}
	s.logger.Info("competitions exported", "path", path, "count", len(comps))
	return path, nil
}

// WriteCompetitionTeamIDs writes team_ids_<comp_id>.csv for each given
// competition, fetching the competitions in parallel. An unknown
// competition id is logged and skipped rather than failing the rest.
func (s *ExportService) WriteCompetitionTeamIDs(ctx context.Context, competitionIDs []int64) error {
	if len(competitionIDs) == 0 {
		return fmt.Errorf("%w: at least one competition id is required", ErrInvalidInput)
	}

	p := pool.New().WithErrors().WithContext(ctx)
	for _, id := range competitionIDs {
		id := id
		p.Go(func(ctx context.Context) error {
			return s.writeTeams(ctx, id)
		})
	}
	return p.Wait()
}

func (s *ExportService) writeTeams(ctx context.Context, competitionID int64) error {
	teams, err := s.source.CompetitionTeams(ctx, competitionID)
	if errors.Is(err, ErrNotFound) {
		s.logger.Warn("competition not found", "comp_id", competitionID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("list teams comp_id=%d: %w", competitionID, err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("team_ids_%d.csv", competitionID))
	records := make([][]string, 0, len(teams)+1)
	records = append(records, []string{"team_id", "team_name"})
	for _, team := range teams {
		records = append(records, []string{strconv.FormatInt(team.ID, 10), team.Name})
	}

	if err := writeCSV(path, records); err != nil {
		return err
	}
	s.logger.Info("teams exported", "path", path, "count", len(teams))
	return nil
}

func writeCSV(path string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
