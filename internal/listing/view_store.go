package listing

import (
	"sync"
	"time"
)

type viewKey struct {
	session string
	view    string
}

type storedState struct {
	state State
	seen  time.Time
}

// ViewStore keeps list state per session and view name.
type ViewStore struct {
	mu     sync.Mutex
	states map[viewKey]storedState
	now    func() time.Time
}

func NewViewStore() *ViewStore {
	return &ViewStore{states: make(map[viewKey]storedState), now: time.Now}
}

func (s *ViewStore) Get(session, view string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[viewKey{session, view}]; ok {
		return st.state
	}
	return NewState()
}

// Drop forgets every view of a session.
func (s *ViewStore) Drop(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.states {
		if k.session == session {
			delete(s.states, k)
		}
	}
}

// PruneIdle forgets every view not updated since before and reports how many went.
func (s *ViewStore) PruneIdle(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, st := range s.states {
		if st.seen.Before(before) {
			delete(s.states, k)
			n++
		}
	}
	return n
}

// Input is what a request asked for; nil fields leave the stored value alone.
type Input struct {
	Query *string
	Order *Order
	Page  *int
}

// Update applies in to the stored state. A request that changes the query or the order lands
// on page 1 even when it also names a page.
func (s *ViewStore) Update(session, view string, in Input) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := viewKey{session, view}
	cur, ok := s.states[k]
	if !ok {
		cur.state = NewState()
	}
	st := cur.state
	if in.Query != nil {
		st = st.WithQuery(*in.Query)
	}
	if in.Order != nil {
		st = st.WithOrder(*in.Order)
	}
	if in.Page != nil && st.Query == cur.state.Query && st.Order == cur.state.Order {
		st = st.WithPage(*in.Page)
	}
	s.states[k] = storedState{state: st, seen: s.now()}
	return st
}
