// File: call/store.go
package call

import (
	"errors"
	"sync"
)

var (
	// ErrDuplicateSession is returned when a call SID is already registered.
	ErrDuplicateSession = errors.New("call session already exists")
	// ErrSessionNotFound is returned when no session is registered for a call SID.
	ErrSessionNotFound = errors.New("call session not found")
	// ErrTooManyCalls is returned when admission would exceed the configured
	// maximum concurrent call count.
	ErrTooManyCalls = errors.New("maximum concurrent call count reached")
)

// Store is the process-wide registry of live call sessions, keyed by call SID.
// Its mutex guards only the SID-to-session map; session internals have their
// own lock.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session for the given call SID. At most one session
// may exist per SID at a time. A positive maxActive caps the number of
// registered sessions; the check shares the critical section with the insert,
// so concurrent creates can never exceed the cap.
func (st *Store) Create(callSID, callerNumber string, maxActive int) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[callSID]; ok {
		return nil, ErrDuplicateSession
	}
	if maxActive > 0 && len(st.sessions) >= maxActive {
		return nil, ErrTooManyCalls
	}
	sess := newSession(callSID, callerNumber)
	st.sessions[callSID] = sess
	return sess, nil
}

// Get returns the live session for a call SID.
func (st *Store) Get(callSID string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[callSID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Remove drops the session for a call SID. Removing an absent SID is a no-op.
func (st *Store) Remove(callSID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, callSID)
}

// Len reports how many sessions are currently registered.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
