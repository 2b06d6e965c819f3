package router

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	ErrScopeClosed = errors.New("page scope closed")
	ErrScannerBusy = errors.New("a scanner is already active on this page")
)

// Scope owns the transient resources of one mounted page. Closing it stops
// the scanner and runs registered closers exactly once.
type Scope struct {
	mu         sync.Mutex
	generation uint64
	page       Page
	closed     bool
	scanner    *Scanner
	closers    []func()
}

func (s *Scope) Generation() uint64 {
	return s.generation
}

func (s *Scope) Page() Page {
	return s.page
}

func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// OnClose registers fn to run when the page is left. If the scope is
// already closed fn runs immediately.
func (s *Scope) OnClose(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.closers = append(s.closers, fn)
	s.mu.Unlock()
}

// Apply runs fn only while the scope is still mounted and reports whether
// it ran. Late results for an abandoned page are dropped here. fn must not
// call back into the scope.
func (s *Scope) Apply(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	fn()
	return true
}

// AcquireScanner leases the camera scanner for this page.
func (s *Scope) AcquireScanner() (*Scanner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrScopeClosed
	}
	if s.scanner != nil && s.scanner.Active() {
		return nil, ErrScannerBusy
	}
	sc := &Scanner{ID: uuid.NewString(), scope: s}
	sc.active.Store(true)
	s.scanner = sc
	return sc, nil
}

// Scanner returns the active scanner with the given id.
func (s *Scope) Scanner(id string) (*Scanner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.scanner == nil || s.scanner.ID != id || !s.scanner.Active() {
		return nil, false
	}
	return s.scanner, true
}

func (s *Scope) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	scanner := s.scanner
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	if scanner != nil {
		scanner.Release()
	}
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}

// Scanner is a lease on the QR camera. The browser holds the id and must
// present it with every decoded payload.
type Scanner struct {
	ID     string
	scope  *Scope
	active atomic.Bool
}

func (sc *Scanner) Active() bool {
	return sc.active.Load()
}

// Release stops the scanner. Safe to call more than once.
func (sc *Scanner) Release() {
	sc.active.Store(false)
}

// Navigator tracks the mounted page for one session.
type Navigator struct {
	mu         sync.Mutex
	generation uint64
	current    *Scope
}

func NewNavigator() *Navigator {
	return &Navigator{}
}

// Enter unmounts the current page, releasing its resources, then mounts
// page and returns its fresh scope.
func (n *Navigator) Enter(page Page) *Scope {
	n.mu.Lock()
	prev := n.current
	n.generation++
	next := &Scope{generation: n.generation, page: page}
	n.current = next
	n.mu.Unlock()

	if prev != nil {
		prev.close()
	}
	return next
}

// Current returns the mounted scope, or nil before the first Enter.
func (n *Navigator) Current() *Scope {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// IsCurrent reports whether generation still identifies the mounted page.
func (n *Navigator) IsCurrent(generation uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current != nil && n.current.generation == generation && !n.current.Closed()
}

// ActiveScanner looks up a scanner lease on the mounted page.
func (n *Navigator) ActiveScanner(id string) (*Scanner, bool) {
	cur := n.Current()
	if cur == nil {
		return nil, false
	}
	return cur.Scanner(id)
}

// Close unmounts the current page without mounting another.
func (n *Navigator) Close() {
	n.mu.Lock()
	prev := n.current
	n.current = nil
	n.mu.Unlock()
	if prev != nil {
		prev.close()
	}
}

// Registry holds one navigator per portal session. Entries not seen within
// the idle window are closed by Sweep.
type Registry struct {
	mu   sync.Mutex
	navs map[string]*registryEntry
	now  func() time.Time
}

type registryEntry struct {
	nav      *Navigator
	lastSeen time.Time
}

func NewRegistry() *Registry {
	return &Registry{navs: make(map[string]*registryEntry), now: time.Now}
}

// For returns the navigator for sessionID, creating it on first use.
func (r *Registry) For(sessionID string) *Navigator {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.navs[sessionID]
	if !ok {
		e = &registryEntry{nav: NewNavigator()}
		r.navs[sessionID] = e
	}
	e.lastSeen = r.now()
	return e.nav
}

// Lookup returns the navigator for sessionID without creating one.
func (r *Registry) Lookup(sessionID string) (*Navigator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.navs[sessionID]
	if !ok {
		return nil, false
	}
	return e.nav, true
}

// Drop closes and forgets the navigator, used on logout and revocation.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	e, ok := r.navs[sessionID]
	delete(r.navs, sessionID)
	r.mu.Unlock()
	if ok {
		e.nav.Close()
	}
}

// Sweep drops navigators idle for longer than idle and returns how many
// were dropped.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	var stale []*Navigator

	r.mu.Lock()
	for id, e := range r.navs {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.nav)
			delete(r.navs, id)
		}
	}
	r.mu.Unlock()

	for _, nav := range stale {
		nav.Close()
	}
	return len(stale)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(idle)
		}
	}
}

// Len is the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.navs)
}
