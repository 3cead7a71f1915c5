package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/twitterclarets/clarets-bot/internal/domain/fixture"
)

type stubStateStore struct {
	value    string
	readErr  error
	writeErr error
	writes   int
}

func (s *stubStateStore) Read(context.Context) (string, error) {
	return s.value, s.readErr
}

func (s *stubStateStore) Write(_ context.Context, value string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.value = value
	s.writes++
	return nil
}

func fixtureOn(date time.Time) fixture.Fixture {
	return fixture.Fixture{Date: date}
}

func TestHasChanged_FirstRun(t *testing.T) {
	t.Parallel()

	store := &stubStateStore{readErr: errors.New("no state file")}
	tracker := NewFixtureTracker(store, nil)

	changed, err := tracker.HasChanged(context.Background(), fixtureOn(time.Date(2022, 1, 1, 20, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("HasChanged: %v", err)
	}
	if !changed {
		t.Fatal("expected change on first run")
	}
	if store.value != "01-01-22" {
		t.Fatalf("expected persisted 01-01-22, got %q", store.value)
	}
}

func TestHasChanged_SameDate(t *testing.T) {
	t.Parallel()

	store := &stubStateStore{value: "01-01-22"}
	tracker := NewFixtureTracker(store, nil)

	changed, err := tracker.HasChanged(context.Background(), fixtureOn(time.Date(2022, 1, 1, 20, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("HasChanged: %v", err)
	}
	if changed {
		t.Fatal("expected no change for identical date")
	}
	if store.writes != 0 {
		t.Fatalf("expected no write, got %d", store.writes)
	}
}

func TestHasChanged_NewDate(t *testing.T) {
	t.Parallel()

	store := &stubStateStore{value: "01-01-22"}
	tracker := NewFixtureTracker(store, nil)

	changed, err := tracker.HasChanged(context.Background(), fixtureOn(time.Date(2022, 1, 8, 15, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("HasChanged: %v", err)
	}
	if !changed {
		t.Fatal("expected change for new date")
	}
	if store.value != "08-01-22" {
		t.Fatalf("expected persisted 08-01-22, got %q", store.value)
	}
}

func TestHasChanged_MalformedStateForcesChange(t *testing.T) {
	t.Parallel()

	store := &stubStateStore{value: "not-a-date"}
	tracker := NewFixtureTracker(store, nil)

	changed, err := tracker.HasChanged(context.Background(), fixtureOn(time.Date(2022, 1, 1, 20, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("HasChanged: %v", err)
	}
	if !changed {
		t.Fatal("expected malformed state to force the changed branch")
	}
}

func TestHasChanged_WriteFailurePropagates(t *testing.T) {
	t.Parallel()

	store := &stubStateStore{writeErr: errors.New("disk full")}
	tracker := NewFixtureTracker(store, nil)

	if _, err := tracker.HasChanged(context.Background(), fixtureOn(time.Date(2022, 1, 1, 20, 0, 0, 0, time.UTC))); err == nil {
		t.Fatal("expected persist error to propagate")
	}
}
