package matching

import "context"

// EventType identifies a relationship event pushed to users.
type EventType string

const (
	EventLike   EventType = "like"
	EventMatch  EventType = "match"
	EventUnlike EventType = "unlike"
)

// Event is the payload delivered to a NotificationSink. FromUserID is
// the actor, ToUserID the user being notified about the action.
type Event struct {
	FromUserID int64     `json:"fromUserId"`
	ToUserID   int64     `json:"toUserId"`
	Type       EventType `json:"type"`
}

// NotificationSink receives relationship events. Implementations must
// tolerate being called for offline recipients; delivery failures are
// the sink's concern and never surface to the caller.
type NotificationSink interface {
	Notify(ctx context.Context, event Event)
}

// NopSink discards every event. Useful in tests and as a default when
// no realtime transport is wired.
type NopSink struct{}

func (NopSink) Notify(context.Context, Event) {}
