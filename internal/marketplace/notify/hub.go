package notify

import "context"

// Pusher pushes a payload to the live connection of an actor.
type Pusher interface {
	Push(actorID string, payload interface{})
}

// HubSink forwards events to connected websocket clients.
type HubSink struct {
	hub Pusher
}

// NewHubSink wraps a websocket hub.
func NewHubSink(hub Pusher) *HubSink {
	return &HubSink{hub: hub}
}

func (s *HubSink) Name() string { return "ws" }

// Deliver pushes the event to every recipient that is currently connected.
func (s *HubSink) Deliver(_ context.Context, e Event) error {
	for _, id := range e.Recipients {
		s.hub.Push(id, e)
	}
	return nil
}
