// Package session manages per-(user, session) conversation state: bounded
// turn history, the dialog state machine, and repeated-question loop
// detection, backed by the shared key/value store.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/session/dialog"
	"github.com/WessleyAI/wessley-support-rag/store/kv"
)

const (
	defaultTTL        = 30 * time.Minute
	maxHistory        = 20
	lockTTL           = 5 * time.Second
	loopWindow        = 3
	loopSimilarityMin = 0.92
)

// Manager loads, mutates, and persists Sessions, serializing concurrent
// turns for the same session with an advisory lock.
type Manager struct {
	store kv.Store
	ttl   time.Duration
}

func NewManager(store kv.Store) *Manager {
	return &Manager{store: store, ttl: defaultTTL}
}

func sessionKey(userID, sessionID string) string {
	return fmt.Sprintf("session:%s:%s", userID, sessionID)
}

// Get loads a session, returning a fresh OPEN session if none exists yet.
func (m *Manager) Get(ctx context.Context, userID, sessionID string) (domain.Session, error) {
	raw, ok, err := m.store.Get(ctx, sessionKey(userID, sessionID))
	if err != nil {
		return domain.Session{}, err
	}
	if !ok {
		return domain.Session{UserID: userID, SessionID: sessionID, State: domain.DialogOpen}, nil
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return domain.Session{}, fmt.Errorf("session: decode %s: %w", sessionKey(userID, sessionID), err)
	}
	return s, nil
}

// WithLock runs fn while holding the per-session advisory lock, reloading
// and saving the session around the call so concurrent turns for the same
// session never interleave.
func (m *Manager) WithLock(ctx context.Context, userID, sessionID string, fn func(s *domain.Session) error) error {
	unlock, ok, err := m.store.Lock(ctx, "lock:"+sessionKey(userID, sessionID), lockTTL)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewPipelineError("session.lock", domain.ErrCommitConflict)
	}
	defer unlock(ctx)

	s, err := m.Get(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if err := fn(&s); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	return m.save(ctx, s)
}

func (m *Manager) save(ctx context.Context, s domain.Session) error {
	if len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, sessionKey(s.UserID, s.SessionID), string(raw), m.ttl)
}

// Advance records this turn's user and assistant messages, detects a
// repeated-question loop over the recent history, and computes the next
// DialogState via the dialog package's transition function.
func Advance(s *domain.Session, question, answer string, queryID string, signals dialog.Signals, questionEmbeddings map[string][]float32) domain.DialogState {
	signals.LoopDetected = detectLoop(s.History, question, questionEmbeddings)

	s.History = append(s.History,
		domain.SessionMessage{Role: domain.RoleUser, Content: question, Timestamp: time.Now(), QueryID: queryID},
		domain.SessionMessage{Role: domain.RoleAssistant, Content: answer, Timestamp: time.Now(), QueryID: queryID},
	)

	next := dialog.Transition(s.State, signals)
	s.State = next
	return next
}

// detectLoop flags a session as looping when the user's last loopWindow
// questions are all near-duplicates of the current one, the sign a user is
// stuck getting the same unhelpful answer.
func detectLoop(history []domain.SessionMessage, question string, embeddings map[string][]float32) bool {
	current, ok := embeddings[question]
	if !ok {
		return false
	}

	var recentUserQuestions []string
	for i := len(history) - 1; i >= 0 && len(recentUserQuestions) < loopWindow; i-- {
		if history[i].Role == domain.RoleUser {
			recentUserQuestions = append(recentUserQuestions, history[i].Content)
		}
	}
	if len(recentUserQuestions) < loopWindow {
		return false
	}

	for _, q := range recentUserQuestions {
		vec, ok := embeddings[q]
		if !ok || cosine(current, vec) < loopSimilarityMin {
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
