package service

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-explorer/internal/aoi"
	"github.com/joeblew999/plat-explorer/internal/catalog"
	"github.com/joeblew999/plat-explorer/internal/mapview"
	"github.com/joeblew999/plat-explorer/internal/remote"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Session is one browser tab showing the home view. The host is created
// when the first SSE stream attaches (mount) and lives until the session is
// closed (unmount), so a stream that reconnects finds the view as it was.
type Session struct {
	ID string

	mu       sync.Mutex
	cfg      mapview.Config
	outbox   *remote.Outbox
	backend  *remote.Backend
	draw     *remote.Draw
	host     *mapview.Host
	streams  int
	lastSeen time.Time
	changed  chan struct{}
}

func newSession(id string, cfg mapview.Config) *Session {
	return &Session{
		ID:       id,
		cfg:      cfg,
		outbox:   remote.NewOutbox(),
		lastSeen: time.Now(),
		changed:  make(chan struct{}, 1),
	}
}

// Changed is signaled after the host state may have changed.
func (s *Session) Changed() <-chan struct{} {
	return s.changed
}

func (s *Session) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// Catalog returns the catalog the session's host is built from.
func (s *Session) Catalog() *catalog.Catalog {
	if s.cfg.Catalog == nil {
		return catalog.Default()
	}
	return s.cfg.Catalog
}

// Outbox returns the queue of map commands for the browser.
func (s *Session) Outbox() *remote.Outbox {
	return s.outbox
}

// attach registers a stream and reports whether it mounted the host.
func (s *Session) attach() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streams++
	s.lastSeen = time.Now()
	if s.host != nil {
		return false
	}
	s.backend = remote.NewBackend(s.outbox)
	s.draw = remote.NewDraw(s.outbox)
	s.host = mapview.NewHost(s.backend, s.draw, s.cfg)
	s.host.Mount()
	return true
}

func (s *Session) detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streams--
	s.lastSeen = time.Now()
}

// unmount releases the host and reports whether one was mounted.
func (s *Session) unmount() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.host == nil {
		return false
	}
	s.host.Unmount()
	s.host, s.backend, s.draw = nil, nil, nil
	return true
}

// Do runs fn against the mounted host. Calls are serialised per session.
// It returns false if no host is mounted.
func (s *Session) Do(fn func(h *mapview.Host)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.host == nil {
		return false
	}
	s.lastSeen = time.Now()
	fn(s.host)
	s.notify()
	return true
}

// Snapshot returns the panel view of the mounted host.
func (s *Session) Snapshot() (mapview.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.host == nil {
		return mapview.View{}, false
	}
	return s.host.Snapshot(), true
}

// ReportView records a map view reported by the browser.
func (s *Session) ReportView(mapID string, center orb.Point, zoom float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return false
	}
	return s.backend.ReportView(mapID, center, zoom)
}

// ReceiveAOI forwards a map-originated AOI action through the draw adapter.
func (s *Session) ReceiveAOI(a aoi.Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draw == nil {
		return false
	}
	ok := s.draw.Receive(a)
	s.notify()
	return ok
}

func (s *Session) idleSince(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streams == 0 && now.Sub(s.lastSeen) > ttl
}

// SessionService tracks the live home view sessions.
type SessionService struct {
	cfg      mapview.Config
	bus      *EventBus
	catalogs *CatalogService

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionService creates a session service whose hosts use cfg.
func NewSessionService(cfg mapview.Config, bus *EventBus) *SessionService {
	if bus == nil {
		bus = NewEventBus()
	}
	return &SessionService{
		cfg:      cfg,
		bus:      bus,
		sessions: make(map[string]*Session),
	}
}

// UseCatalog makes new sessions pick up the current catalog of cs.
func (s *SessionService) UseCatalog(cs *CatalogService) {
	s.catalogs = cs
}

// Create registers a new session for a freshly rendered page.
func (s *SessionService) Create() *Session {
	cfg := s.cfg
	if s.catalogs != nil {
		cfg.Catalog = s.catalogs.Catalog()
	}
	sess := newSession(uuid.NewString(), cfg)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns a session by id.
func (s *SessionService) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Attach registers a new stream, mounting the session's host on the first.
func (s *SessionService) Attach(id string) (*Session, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if sess.attach() {
		s.bus.Publish(Event{Session: id, Action: "mounted"})
	}
	return sess, nil
}

// Detach releases a stream. The host stays mounted until the session is
// closed or reaped.
func (s *SessionService) Detach(sess *Session) {
	sess.detach()
}

// Close unmounts and forgets a session.
func (s *SessionService) Close(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	if sess.unmount() {
		s.bus.Publish(Event{Session: id, Action: "unmounted"})
	}
}

// Reap closes sessions without streams that have been idle longer than ttl
// and returns how many were closed.
func (s *SessionService) Reap(ttl time.Duration) int {
	now := time.Now()
	var idle []string
	s.mu.RLock()
	for id, sess := range s.sessions {
		if sess.idleSince(now, ttl) {
			idle = append(idle, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range idle {
		s.Close(id)
	}
	if len(idle) > 0 {
		log.Printf("sessions: reaped %d idle", len(idle))
	}
	return len(idle)
}

// Publish emits a view event for a session.
func (s *SessionService) Publish(id, action string, props map[string]any) {
	s.bus.Publish(Event{Session: id, Action: action, Properties: props})
}

// Len returns the number of tracked sessions.
func (s *SessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
