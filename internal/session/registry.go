package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"onboard/internal/journey"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/sentinel"
)

// Session binds one presentation-layer client to its own orchestrator
// instance. Nothing is shared between sessions; each owns its journey context
// outright.
type Session struct {
	ID           string
	Orchestrator *journey.Orchestrator
	Device       string
	CreatedAt    time.Time

	lastSeen time.Time
	cancel   context.CancelFunc
}

// Factory builds a fresh orchestrator for a new session.
type Factory func() (*journey.Orchestrator, error)

// Registry owns the live sessions of a single demo server. Idle sessions are
// swept so abandoned journeys do not accumulate.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	factory Factory
	logger  *slog.Logger
	idleTTL time.Duration
}

type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

func WithIdleTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.idleTTL = ttl }
}

func New(factory Factory, opts ...Option) (*Registry, error) {
	if factory == nil {
		return nil, errors.New("orchestrator factory is required")
	}
	r := &Registry{
		sessions: make(map[string]*Session),
		factory:  factory,
		idleTTL:  30 * time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r, nil
}

// Create starts a new session with its own orchestrator and journey clock.
func (r *Registry) Create(device string) (*Session, error) {
	orch, err := r.factory()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build orchestrator")
	}

	clockCtx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	sess := &Session{
		ID:           uuid.NewString(),
		Orchestrator: orch,
		Device:       device,
		CreatedAt:    now,
		lastSeen:     now,
		cancel:       cancel,
	}
	go orch.Run(clockCtx)

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	r.logger.Info("session created", "session_id", sess.ID, "device", device)
	return sess, nil
}

// Get looks a session up and marks it seen.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "unknown session")
	}
	sess.lastSeen = time.Now()
	return sess, nil
}

// Remove stops the session's clock and forgets it.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[id]; ok {
		sess.cancel()
		delete(r.sessions, id)
	}
}

// Len reports how many sessions are live.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle past the TTL.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, sess := range r.sessions {
		if now.Sub(sess.lastSeen) > r.idleTTL {
			sess.cancel()
			delete(r.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.Info("sessions swept", "evicted", evicted)
	}
	return evicted
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}
