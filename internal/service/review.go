// internal/service/review.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hamforge/backend/internal/domain/question"
	"github.com/hamforge/backend/internal/domain/srs"
	"github.com/hamforge/backend/internal/store"
	"github.com/hamforge/backend/internal/worker"
)

// ProgressStore is the persistence surface the review service writes
// scheduling state through.
type ProgressStore interface {
	GetProgress(ctx context.Context, questionID string) (*srs.QuestionProgress, error)
	SaveProgress(ctx context.Context, level question.Level, p *srs.QuestionProgress) error
}

// reviewOutcome is what a worker reports back after one progress write.
type reviewOutcome struct {
	sessionID  string
	questionID string
	tracked    bool
	err        error
}

// ReviewService applies the spaced-repetition engine to answer outcomes and
// persists the result asynchronously. Every write is independent and
// best-effort: a failure is logged and never reaches the caller, and one
// question's failure does not stop its siblings. Per-session WaitGroups let
// tests (and shutdown) wait for in-flight writes.
type ReviewService struct {
	store  ProgressStore
	logger *slog.Logger
	pool   *worker.Pool[reviewOutcome]

	mu      sync.RWMutex
	pending map[string]*sync.WaitGroup // sessionID → WaitGroup

	closeOnce sync.Once
}

// NewReviewService creates a ReviewService with workerCount concurrent
// progress writers.
func NewReviewService(s ProgressStore, logger *slog.Logger, workerCount int) *ReviewService {
	if workerCount < 1 {
		workerCount = 1
	}
	rs := &ReviewService{
		store:   s,
		logger:  logger,
		pool:    worker.NewPool[reviewOutcome](workerCount, 64),
		pending: make(map[string]*sync.WaitGroup),
	}
	go rs.drain()
	return rs
}

// TrackSession registers a session for WaitGroup tracking.
// Call this after creating a new session.
func (rs *ReviewService) TrackSession(sessionID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.pending[sessionID] = &sync.WaitGroup{}
}

// WaitForSession blocks until every write reported for the session has
// finished. Untracked sessions return immediately.
func (rs *ReviewService) WaitForSession(sessionID string) {
	rs.mu.RLock()
	wg, ok := rs.pending[sessionID]
	rs.mu.RUnlock()

	if ok {
		wg.Wait()
	}
}

// ForgetSession drops a session's WaitGroup once it is no longer needed.
func (rs *ReviewService) ForgetSession(sessionID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	delete(rs.pending, sessionID)
}

// ReportAnswer queues one per-question scheduling update. Fire and forget:
// it returns before the write happens and swallows any write failure.
func (rs *ReviewService) ReportAnswer(sessionID, questionID string, correct bool, confidence int) {
	rs.mu.RLock()
	wg, tracked := rs.pending[sessionID]
	rs.mu.RUnlock()

	if tracked {
		wg.Add(1)
	}

	rs.pool.Submit(questionID, func() reviewOutcome {
		return reviewOutcome{
			sessionID:  sessionID,
			questionID: questionID,
			tracked:    tracked,
			err:        rs.saveOutcome(questionID, correct, confidence),
		}
	})
}

// saveOutcome loads (or initializes) the progress record, folds the answer
// in, and writes it back. It runs on a worker goroutine with its own
// context because the originating request may be long gone.
func (rs *ReviewService) saveOutcome(questionID string, correct bool, confidence int) error {
	ctx := context.Background()

	progress, err := rs.store.GetProgress(ctx, questionID)
	if errors.Is(err, store.ErrNotFound) {
		initial := srs.InitialProgress(questionID)
		progress = &initial
	} else if err != nil {
		return err
	}

	progress.ApplyAnswer(correct, confidence, time.Now())

	return rs.store.SaveProgress(ctx, question.LevelFromID(questionID), progress)
}

// Shutdown stops the worker pool after the queued writes finish. The
// drain goroutine exits once the results channel closes. Safe to call
// more than once; ReportAnswer after Shutdown panics.
func (rs *ReviewService) Shutdown() {
	rs.closeOnce.Do(rs.pool.Close)
}

// drain consumes worker results for the life of the process, logging
// failures and releasing WaitGroup slots.
func (rs *ReviewService) drain() {
	for res := range rs.pool.Results() {
		if res.Output.err != nil {
			rs.logger.Error("failed to save question progress",
				"question_id", res.Output.questionID,
				"error", res.Output.err,
			)
		}
		if res.Output.tracked {
			rs.mu.RLock()
			wg, ok := rs.pending[res.Output.sessionID]
			rs.mu.RUnlock()
			if ok {
				wg.Done()
			}
		}
	}
}
