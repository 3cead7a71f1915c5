package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/twitterclarets/clarets-bot/internal/domain/fixture"
	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
)

// StateDateLayout is the wire format of the persisted fixture date.
const StateDateLayout = "02-01-06"

// FixtureTracker remembers the date of the most recently announced fixture.
// It is an edge-triggered latch: only the latest date is kept.
type FixtureTracker struct {
	store  StateStore
	logger *logging.Logger
}

func NewFixtureTracker(store StateStore, logger *logging.Logger) *FixtureTracker {
	if logger == nil {
		logger = logging.Default()
	}
	return &FixtureTracker{store: store, logger: logger}
}

// HasChanged compares the fixture's date against the persisted one and,
// when they differ, persists the new date before reporting the change.
// An unreadable or malformed stored value counts as no prior state, so the
// first run (and a corrupted state file) always reports a change instead
// of failing the pipeline.
func (t *FixtureTracker) HasChanged(ctx context.Context, fix fixture.Fixture) (bool, error) {
	current := fix.Date.Format(StateDateLayout)

	previous, err := t.store.Read(ctx)
	if err != nil {
		t.logger.Warn("fixture state unreadable, assuming first run", "error", err)
		previous = ""
	}
	previous = strings.TrimSpace(previous)
	if previous != "" {
		if _, parseErr := time.Parse(StateDateLayout, previous); parseErr != nil {
			t.logger.Warn("fixture state malformed, assuming first run", "value", previous)
			previous = ""
		}
	}

	if previous == current {
		return false, nil
	}

	if err := t.store.Write(ctx, current); err != nil {
		return false, fmt.Errorf("persist fixture date: %w", err)
	}
	return true, nil
}
