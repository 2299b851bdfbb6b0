// Package session persists and retrieves per-conversation state through
// the KV store. The manager owns all mutation: callers init a session once
// and then append messages or advance the lifecycle state through it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"autobot/internal/domain"
	"autobot/internal/emotion"
	"autobot/internal/store"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSerialization   = errors.New("session serialization failed")
)

const (
	DefaultTTL           = 24 * time.Hour
	DefaultContextWindow = 10
)

var (
	orderNumberRe = regexp.MustCompile(`#[\w-]+`)
	dateHints     = []string{"hace", "días", "semanas"}
)

type Manager struct {
	kv     store.KV
	ttl    time.Duration
	window int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(kv store.KV, ttl time.Duration, window int) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if window <= 0 {
		window = DefaultContextWindow
	}
	return &Manager{kv: kv, ttl: ttl, window: window, locks: make(map[string]*sync.Mutex)}
}

// sessionLock returns the per-session mutex, creating it on first use.
// Serializes writers of one session without blocking other sessions.
func (m *Manager) sessionLock(sesionID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[sesionID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[sesionID] = l
	}
	return l
}

func key(sesionID string) string { return "contexto:" + sesionID }

// InitContext persists a freshly created session, overwriting any previous
// state under the same id.
func (m *Manager) InitContext(sess *domain.Session) error {
	l := m.sessionLock(sess.SesionID)
	l.Lock()
	defer l.Unlock()
	return m.save(sess)
}

// Get loads a session. A stored payload that fails strict decoding reports
// ErrSerialization rather than returning partial state.
func (m *Manager) Get(sesionID string) (*domain.Session, error) {
	raw, ok, err := m.kv.Get(key(sesionID))
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sesionID, err)
	}
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sesionID, ErrSessionNotFound)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("%w: decode session %s: %v", ErrSerialization, sesionID, err)
	}
	return &sess, nil
}

// AppendMessage loads the session, appends the message preserving order,
// mines client messages for key facts and emotional tone, and persists the
// result. Returns the updated session.
func (m *Manager) AppendMessage(sesionID string, msg domain.Message) (*domain.Session, error) {
	l := m.sessionLock(sesionID)
	l.Lock()
	defer l.Unlock()

	sess, err := m.Get(sesionID)
	if err != nil {
		return nil, err
	}

	sess.Historial = append(sess.Historial, msg)
	if msg.Rol == domain.RoleCliente {
		extractKeyFacts(sess, msg.Contenido)
		if tag := emotion.Detect(msg.Contenido); tag != emotion.Neutral {
			sess.Emociones = append(sess.Emociones, tag)
		}
	}

	if err := m.save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// UpdateState advances the session lifecycle. Backward transitions are
// rejected.
func (m *Manager) UpdateState(sesionID string, next domain.SessionState) (*domain.Session, error) {
	l := m.sessionLock(sesionID)
	l.Lock()
	defer l.Unlock()

	sess, err := m.Get(sesionID)
	if err != nil {
		return nil, err
	}
	if !sess.Estado.CanTransition(next) {
		return nil, fmt.Errorf("session %s: invalid transition %s -> %s", sesionID, sess.Estado, next)
	}
	sess.Estado = next

	if err := m.save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// TranscriptForLLM renders the most recent turns as labeled plain text,
// bounded by the context window.
func (m *Manager) TranscriptForLLM(sesionID string) (string, error) {
	sess, err := m.Get(sesionID)
	if err != nil {
		return "", err
	}

	recent := sess.Historial
	if len(recent) > m.window {
		recent = recent[len(recent)-m.window:]
	}

	lines := []string{"# HISTORIAL DE CONVERSACIÓN:"}
	for _, msg := range recent {
		rol := "AGENTE"
		if msg.Rol == domain.RoleCliente {
			rol = "TÚ (Cliente)"
		}
		lines = append(lines, fmt.Sprintf("[Turno %d] %s:\n%s\n", msg.Turno, rol, msg.Contenido))
	}
	return strings.Join(lines, "\n"), nil
}

func (m *Manager) save(sess *domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: encode session %s: %v", ErrSerialization, sess.SesionID, err)
	}
	if err := m.kv.SetWithTTL(key(sess.SesionID), raw, m.ttl); err != nil {
		return fmt.Errorf("session %s: %w", sess.SesionID, err)
	}
	return nil
}

func extractKeyFacts(sess *domain.Session, text string) {
	if sess.DatosClave == nil {
		sess.DatosClave = make(map[string]bool)
	}
	if orderNumberRe.MatchString(text) {
		sess.DatosClave["numero_pedido"] = true
	}
	lower := strings.ToLower(text)
	for _, hint := range dateHints {
		if strings.Contains(lower, hint) {
			sess.DatosClave["fecha_problema"] = true
			break
		}
	}
}
