package session

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestNotifier_SubscribeAndUnsubscribe(t *testing.T) {
	n := NewNotifier()

	var got []Event
	unsubscribe := n.Subscribe(func(ev Event) { got = append(got, ev) })

	n.Publish(Event{Type: EventSignedIn, UserID: "u1"})
	unsubscribe()
	unsubscribe()
	n.Publish(Event{Type: EventSignedOut, UserID: "u1"})

	assert.Equal(t, 1, len(got))
	assert.Equal(t, EventSignedIn, got[0].Type)
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Event
		wantErr bool
	}{
		{name: "signed in", payload: `{"event":"SIGNED_IN","user_id":"u1"}`, want: Event{Type: EventSignedIn, UserID: "u1"}},
		{name: "updated", payload: `{"event":"USER_UPDATED","user_id":"u2"}`, want: Event{Type: EventUserUpdated, UserID: "u2"}},
		{name: "unknown type", payload: `{"event":"PASSWORD_RECOVERY","user_id":"u1"}`, wantErr: true},
		{name: "missing user", payload: `{"event":"SIGNED_OUT"}`, wantErr: true},
		{name: "not json", payload: `SIGNED_IN`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent(tt.payload)
			if tt.wantErr {
				assert.NotEqual(t, nil, err)
				return
			}
			assert.Equal(t, nil, err)
			assert.Equal(t, tt.want, ev)
		})
	}
}
