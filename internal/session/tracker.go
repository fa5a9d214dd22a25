package session

import (
	"context"
	"sync"
)

type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
)

// Event is an auth state change. Token is empty for sign-out.
type Event struct {
	Type  EventType
	Token string
}

// Tracker holds the current session state and re-resolves it on every auth
// event. It starts in Loading until the first event arrives.
type Tracker struct {
	resolver *Resolver

	mu     sync.Mutex
	state  State
	token  string
	nextID int
	subs   map[int]func(State)
}

func NewTracker(resolver *Resolver) *Tracker {
	return &Tracker{resolver: resolver, state: Loading(), subs: make(map[int]func(State))}
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Handle applies an event and publishes the resulting state. Subscribers run
// under the tracker lock and must not call back into it.
func (t *Tracker) Handle(ctx context.Context, ev Event) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && t.token != ev.Token {
		t.resolver.Evict(t.token)
	}
	switch ev.Type {
	case EventSignedOut:
		t.token = ""
		t.state = Unauthenticated()
	default:
		t.token = ev.Token
		t.state = t.resolver.Resolve(ctx, ev.Token)
	}
	for _, fn := range t.subs {
		fn(t.state)
	}
	return t.state
}

// Subscribe registers fn for every published state. The returned function
// removes the subscription.
func (t *Tracker) Subscribe(fn func(State)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
}
