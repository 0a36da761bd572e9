package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lib/pq"
)

const Channel = "auth_events"

const (
	EventSignedIn    = "SIGNED_IN"
	EventUserUpdated = "USER_UPDATED"
	EventSignedOut   = "SIGNED_OUT"
)

type Event struct {
	Type   string `json:"event"`
	UserID string `json:"user_id"`
}

// Notifier fans auth events out to subscribers.
type Notifier struct {
	mu   sync.RWMutex
	subs map[int]func(Event)
	next int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns the function that removes it.
func (n *Notifier) Subscribe(fn func(Event)) func() {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

func (n *Notifier) Publish(ev Event) {
	n.mu.RLock()
	fns := make([]func(Event), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Listen relays notifications from the Postgres auth_events channel until ctx ends.
func (n *Notifier) Listen(ctx context.Context, connStr string) error {
	listener := pq.NewListener(connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			slog.Warn("auth listener event", "event", ev, "error", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(Channel); err != nil {
		return fmt.Errorf("listen %s: %w", Channel, err)
	}

	slog.Info("listening for auth events", "channel", Channel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case note := <-listener.Notify:
			// nil after a reconnect; cached profiles may be out of date but stay usable.
			if note == nil {
				continue
			}
			ev, err := ParseEvent(note.Extra)
			if err != nil {
				slog.Error("error decoding auth event", "payload", note.Extra, "error", err)
				continue
			}
			n.Publish(ev)
		case <-time.After(90 * time.Second):
			if err := listener.Ping(); err != nil {
				slog.Warn("auth listener ping failed", "error", err)
			}
		}
	}
}

func ParseEvent(payload string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, err
	}
	switch ev.Type {
	case EventSignedIn, EventUserUpdated, EventSignedOut:
	default:
		return Event{}, fmt.Errorf("unknown auth event %q", ev.Type)
	}
	if ev.UserID == "" {
		return Event{}, fmt.Errorf("auth event %s has no user", ev.Type)
	}
	return ev, nil
}
