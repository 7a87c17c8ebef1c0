// internal/service/sessions.go
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hamforge/backend/internal/domain/exam"
	examsession "github.com/hamforge/backend/internal/domain/exam_session"
	practicesession "github.com/hamforge/backend/internal/domain/practice_session"
	"github.com/hamforge/backend/internal/domain/question"
)

// SessionStore is the persistence surface the session manager hands to its
// controllers: snapshots, archival, and the practice-session progress ops.
type SessionStore interface {
	examsession.SnapshotStore
	examsession.Archiver
	practicesession.ProgressStore
}

// SessionManager owns the live session controllers. One exam session is
// active at a time (the snapshot lives under a single fixed key); practice
// sessions are kept in a map by ID. The manager also owns the ticker
// goroutine that drives the exam countdown.
type SessionManager struct {
	generator    *exam.Generator
	pool         question.PoolProvider
	store        SessionStore
	reviews      *ReviewService
	logger       *slog.Logger
	tickInterval time.Duration

	mu          sync.Mutex
	examSession *examsession.Controller
	stopTicker  chan struct{}
	practice    map[string]*practicesession.Session
}

func NewSessionManager(generator *exam.Generator, pool question.PoolProvider, store SessionStore, reviews *ReviewService, logger *slog.Logger, tickInterval time.Duration) *SessionManager {
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	return &SessionManager{
		generator:    generator,
		pool:         pool,
		store:        store,
		reviews:      reviews,
		logger:       logger,
		tickInterval: tickInterval,
		practice:     make(map[string]*practicesession.Session),
	}
}

// StartExamSession restores or generates an exam session for the level and
// starts its countdown. Any previously mounted session's ticker is stopped
// first; the controller itself decides restore-vs-generate.
func (m *SessionManager) StartExamSession(ctx context.Context, level question.Level) *examsession.Controller {
	c := examsession.New(ctx, level, m.generator, m.store, m.store, m.reviews, m.logger)

	m.mu.Lock()
	if m.stopTicker != nil {
		close(m.stopTicker)
		m.stopTicker = nil
	}
	m.examSession = c
	if v := c.View(); v.Exam != nil && !v.Complete {
		m.reviews.TrackSession(v.Exam.ID)
		stop := make(chan struct{})
		m.stopTicker = stop
		go m.runTicker(c, stop)
	}
	m.mu.Unlock()

	return c
}

// ExamSession returns the mounted exam session, nil when none.
func (m *SessionManager) ExamSession() *examsession.Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.examSession
}

func (m *SessionManager) runTicker(c *examsession.Controller, stop <-chan struct{}) {
	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.Tick()
			if c.Complete() {
				return
			}
		}
	}
}

// StartPracticeSession resolves and registers a practice session.
func (m *SessionManager) StartPracticeSession(ctx context.Context, cfg practicesession.SessionConfig) *practicesession.Session {
	s := practicesession.New(ctx, cfg, m.pool, m.store, m.reviews, m.logger)

	m.mu.Lock()
	m.practice[s.ID] = s
	m.mu.Unlock()

	m.reviews.TrackSession(s.ID)
	return s
}

// PracticeSession looks up a live practice session by ID.
func (m *SessionManager) PracticeSession(id string) (*practicesession.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.practice[id]
	return s, ok
}

// Shutdown stops the exam ticker. In-flight progress writes are owned by
// the review service and drain on their own.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopTicker != nil {
		close(m.stopTicker)
		m.stopTicker = nil
	}
}
