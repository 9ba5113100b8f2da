package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobprep/interview/internal/metrics"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/scoring"
	"jobprep/interview/internal/timers"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager owns the live sessions, keyed by generated ID. Each session gets
// its own one-second runner; stopping the manager stops all of them.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	reaper   *timers.Runner

	questions    QuestionProvider
	pipeline     *scoring.Pipeline
	transcriber  Transcriber
	logger       *zap.Logger
	tickInterval time.Duration
}

func NewManager(questions QuestionProvider, pipeline *scoring.Pipeline, transcriber Transcriber, logger *zap.Logger) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		questions:    questions,
		pipeline:     pipeline,
		transcriber:  transcriber,
		logger:       logger,
		tickInterval: time.Second,
	}
}

// Start creates a session, fetches its question set and starts its clock.
// The fetch is synchronous so the caller gets back either a ready session
// or an error, never a session stuck in loading.
func (m *Manager) Start(ctx context.Context, req *models.StartInterviewRequest) (*Session, error) {
	s := newSession(uuid.NewString(), req, m.questions, m.pipeline, m.transcriber, m.logger)
	if err := s.load(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	metrics.SetActiveSessions(len(m.sessions))
	m.mu.Unlock()

	s.startRunner(m.tickInterval)
	m.logger.Info("interview session started",
		zap.String("session_id", s.ID),
		zap.String("difficulty", req.Difficulty))
	return s, nil
}

// Get returns the session for id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove drops the session and stops its clock.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	metrics.SetActiveSessions(len(m.sessions))
	m.mu.Unlock()
	if ok {
		s.stopRunner()
	}
}

// StartReaper periodically drops completed sessions older than ttl so
// finished interviews do not pile up in memory.
func (m *Manager) StartReaper(ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reaper != nil {
		return
	}
	m.reaper = timers.StartRunner(time.Minute, func() { m.reap(ttl) })
}

func (m *Manager) reap(ttl time.Duration) {
	cutoff := time.Now().Add(-ttl)

	m.mu.RLock()
	var expired []string
	for id, s := range m.sessions {
		if s.CompletedBefore(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range expired {
		m.Remove(id)
		m.logger.Info("reaped completed session", zap.String("session_id", id))
	}
}

// Stop halts every session clock. Called on shutdown.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.reaper != nil {
		m.reaper.Stop()
		m.reaper = nil
	}
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.stopRunner()
	}
}

// Count reports how many sessions are live.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
