package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/twitterclarets/clarets-bot/internal/domain/fixture"
	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
)

// PipelineService runs the once-daily tweet pipeline: fetch the next
// fixture, detect whether it changed since the last run, and either
// announce it, post opposition stats on a league matchday, or do nothing.
// Exactly one of those paths executes per run.
type PipelineService struct {
	fixtures  FixtureSource
	standings StandingsSource
	publisher Publisher
	tracker   *FixtureTracker
	teamID    int64
	hashtag   string
	location  *time.Location
	logger    *logging.Logger
	now       func() time.Time
}

func NewPipelineService(
	fixtures FixtureSource,
	standingsSource StandingsSource,
	publisher Publisher,
	tracker *FixtureTracker,
	teamID int64,
	hashtag string,
	location *time.Location,
	logger *logging.Logger,
) *PipelineService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PipelineService{
		fixtures:  fixtures,
		standings: standingsSource,
		publisher: publisher,
		tracker:   tracker,
		teamID:    teamID,
		hashtag:   hashtag,
		location:  location,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *PipelineService) Run(ctx context.Context) error {
	fix, err := s.fixtures.NextFixture(ctx, s.teamID)
	if err != nil {
		return fmt.Errorf("fetch next fixture: %w", err)
	}
	if fix == nil {
		s.logger.Info("no upcoming fixture", "team_id", s.teamID)
		return nil
	}

	local := fix.In(s.location)
	s.logger.Debug("fixture fetched",
		"home", local.HomeTeamName,
		"away", local.AwayTeamName,
		"kickoff", local.Date,
		"competition", local.Competition.Name,
	)

	changed, err := s.tracker.HasChanged(ctx, local)
	if err != nil {
		return fmt.Errorf("track fixture state: %w", err)
	}
	if changed {
		return s.announceFixture(ctx, local)
	}

	today := s.now().In(s.location)
	if !local.IsMatchday(today) {
		s.logger.Info("fixture unchanged, not matchday", "kickoff", local.Date)
		return nil
	}
	if !local.IsLeague() {
		s.logger.Info("matchday, but not a league fixture", "competition", local.Competition.Name)
		return nil
	}

	return s.postOppositionStats(ctx, local)
}

func (s *PipelineService) announceFixture(ctx context.Context, local fixture.Fixture) error {
	opponent, err := local.Opposition(s.teamID)
	if err != nil {
		return fmt.Errorf("compose announcement: %w", err)
	}
	side, err := HomeOrAway(local, s.teamID)
	if err != nil {
		return fmt.Errorf("compose announcement: %w", err)
	}

	day, clock := MakeDateReadable(local.Date)
	text := AppendHashtag(FormatNextFixture(opponent, side, local.Venue, day, clock), s.hashtag)
	return s.publish(ctx, "announcement", text)
}

func (s *PipelineService) postOppositionStats(ctx context.Context, local fixture.Fixture) error {
	opponent, err := local.Opposition(s.teamID)
	if err != nil {
		return fmt.Errorf("compose stats: %w", err)
	}

	table, err := s.standings.Standings(ctx)
	if err != nil {
		return fmt.Errorf("fetch standings: %w", err)
	}

	stats, err := CollectStats(table, opponent)
	if err != nil {
		return fmt.Errorf("collect opposition stats: %w", err)
	}

	// Reserve room for the trailing hashtag so the final tweet stays
	// within the platform limit.
	limit := TweetLimit - utf8.RuneCountInString("\n\n#"+s.hashtag)
	text := AppendHashtag(FormatOppositionStats(stats, limit), s.hashtag)
	return s.publish(ctx, "stats", text)
}

func (s *PipelineService) publish(ctx context.Context, kind, text string) error {
	id, err := s.publisher.Post(ctx, text)
	if errors.Is(err, ErrDuplicateContent) {
		s.logger.Warn("tweet rejected as duplicate", "kind", kind)
		return nil
	}
	if err != nil {
		return fmt.Errorf("publish %s tweet: %w", kind, err)
	}

	s.logger.Info("tweet published", "kind", kind, "tweet_id", id, "chars", utf8.RuneCountInString(text))
	return nil
}
