package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
)

// PurgeResult summarizes a bulk delete.
type PurgeResult struct {
	Listed  int
	Deleted int
	Failed  int
}

// PurgeService removes every tweet from the account timeline. It is an
// operator tool, never part of the scheduled pipeline.
type PurgeService struct {
	admin   TweetAdmin
	workers int
	logger  *logging.Logger
}

func NewPurgeService(admin TweetAdmin, workers int, logger *logging.Logger) *PurgeService {
	if workers < 1 {
		workers = 2
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PurgeService{admin: admin, workers: workers, logger: logger}
}

func (s *PurgeService) DeleteAll(ctx context.Context) (PurgeResult, error) {
	tweets, err := s.admin.Timeline(ctx)
	if err != nil {
		return PurgeResult{}, fmt.Errorf("list timeline: %w", err)
	}
	if len(tweets) == 0 {
		return PurgeResult{}, nil
	}

	workerCount := s.workers
	if workerCount > len(tweets) {
		workerCount = len(tweets)
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return PurgeResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var deleted atomic.Int32
	var failed atomic.Int32

	var workers sync.WaitGroup
	for _, tweet := range tweets {
		tweet := tweet
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			if err := s.admin.Delete(ctx, tweet.ID); err != nil {
				failed.Add(1)
				s.logger.Warn("delete failed", "tweet_id", tweet.ID, "error", err)
				return
			}
			deleted.Add(1)
			s.logger.Info("tweet deleted", "tweet_id", tweet.ID)
		}); err != nil {
			workers.Done()
			return PurgeResult{}, fmt.Errorf("submit delete to worker pool: %w", err)
		}
	}
	workers.Wait()

	return PurgeResult{
		Listed:  len(tweets),
		Deleted: int(deleted.Load()),
		Failed:  int(failed.Load()),
	}, nil
}
