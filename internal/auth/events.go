package auth

import "context"

type EventType string

const (
	SignedIn       EventType = "SIGNED_IN"
	SignedOut      EventType = "SIGNED_OUT"
	TokenRefreshed EventType = "TOKEN_REFRESHED"
)

type Event struct {
	Type    EventType
	Session *Session
}

type Listener func(ctx context.Context, ev Event)

// OnSessionChange registers l for session events and returns a function that
// removes it.
func (s *Service) OnSessionChange(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// emit calls listeners synchronously, in registration order, without holding the lock.
func (s *Service) emit(ctx context.Context, ev Event) {
	s.mu.RLock()
	ls := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			ls = append(ls, l)
		}
	}
	s.mu.RUnlock()

	for _, l := range ls {
		l(ctx, ev)
	}
}
