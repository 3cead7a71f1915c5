package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlightCollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var fetches atomic.Int32
	release := make(chan struct{})

	const callers = 8
	results := make([]any, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			value, err := flight.Do("standings-page", func() (any, error) {
				fetches.Add(1)
				<-release
				return "table", nil
			})
			if err != nil {
				t.Errorf("Do() error = %v", err)
			}
			results[i] = value
		}()
	}

	close(release)
	wg.Wait()

	if got := fetches.Load(); got != 1 {
		t.Fatalf("fetch ran %d times, want 1", got)
	}
	for i, value := range results {
		if value != "table" {
			t.Fatalf("caller %d got %v, want table", i, value)
		}
	}
}

func TestSingleFlightPropagatesError(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	fetchErr := errors.New("provider status=503")

	_, err := flight.Do("next-fixture", func() (any, error) {
		return nil, fetchErr
	})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("Do() error = %v, want %v", err, fetchErr)
	}
}

func TestSingleFlightSequentialCallsRunFresh(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var fetches atomic.Int32

	for i := 0; i < 3; i++ {
		if _, err := flight.Do("next-fixture", func() (any, error) {
			fetches.Add(1)
			return nil, nil
		}); err != nil {
			t.Fatalf("Do() call %d error = %v", i, err)
		}
	}

	if got := fetches.Load(); got != 3 {
		t.Fatalf("fetch ran %d times, want 3", got)
	}
}

func TestSingleFlightDistinctKeysDoNotBlock(t *testing.T) {
	t.Parallel()

	var flight SingleFlight

	first, err := flight.Do("key-a", func() (any, error) { return "a", nil })
	if err != nil || first != "a" {
		t.Fatalf("Do(key-a) = %v, %v", first, err)
	}
	second, err := flight.Do("key-b", func() (any, error) { return "b", nil })
	if err != nil || second != "b" {
		t.Fatalf("Do(key-b) = %v, %v", second, err)
	}
}
