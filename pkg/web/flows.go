package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/cup-volunteers/pkg/core/signups"
)

const flowCookieName = "cup_flow"

type flowEntry struct {
	flow       *signups.Flow
	lastAccess time.Time
}

// FlowStore keeps each visitor's Flow in memory, keyed by the id in the flow cookie.
// Entries idle for longer than the ttl are swept in the background.
type FlowStore struct {
	mu     sync.Mutex
	flows  map[string]*flowEntry
	ttl    time.Duration
	now    func() time.Time
	stopCh chan struct{}
	once   sync.Once
}

// NewFlowStore starts a store whose sweep runs every ttl/2
func NewFlowStore(ttl time.Duration) *FlowStore {
	s := newFlowStore(ttl, time.Now)
	go s.sweepLoop()
	return s
}

func newFlowStore(ttl time.Duration, now func() time.Time) *FlowStore {
	return &FlowStore{
		flows:  make(map[string]*flowEntry),
		ttl:    ttl,
		now:    now,
		stopCh: make(chan struct{}),
	}
}

// Stop ends the background sweep
func (s *FlowStore) Stop() {
	s.once.Do(func() { close(s.stopCh) })
}

// Get returns a copy of the flow for id, or false if it is unknown or expired
func (s *FlowStore) Get(id string) (*signups.Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.flows[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(entry.lastAccess) > s.ttl {
		delete(s.flows, id)
		return nil, false
	}
	entry.lastAccess = now
	return entry.flow.Clone(), true
}

// Put stores a copy of flow under id
func (s *FlowStore) Put(id string, flow *signups.Flow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[id] = &flowEntry{flow: flow.Clone(), lastAccess: s.now()}
}

// Len returns the number of stored flows
func (s *FlowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flows)
}

func (s *FlowStore) sweepLoop() {
	interval := s.ttl / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep removes entries idle for longer than the ttl
func (s *FlowStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.flows {
		if now.Sub(entry.lastAccess) > s.ttl {
			delete(s.flows, id)
			removed++
		}
	}
	return removed
}

// visitorFlow returns the visitor's flow id and flow, issuing a new cookie when there is none
func (s *Server) visitorFlow(w http.ResponseWriter, r *http.Request) (string, *signups.Flow) {
	if c, err := r.Cookie(flowCookieName); err == nil && c.Value != "" {
		if flow, ok := s.flows.Get(c.Value); ok {
			return c.Value, flow
		}
	}

	id := uuid.NewString()
	flow := signups.NewFlow()
	s.flows.Put(id, flow)
	http.SetCookie(w, &http.Cookie{
		Name:     flowCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, flow
}
