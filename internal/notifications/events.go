// Package notifications delivers forum activity to live feed websocket clients.
package notifications

import (
	"context"
	"encoding/json"
	"log/slog"

	"forumhub/internal/middleware"
	"forumhub/internal/observability"
)

// Feed event types.
const (
	EventForumCreated   = "forum_created"
	EventForumUpdated   = "forum_updated"
	EventForumDeleted   = "forum_deleted"
	EventCommentCreated = "comment_created"
	EventCommentDeleted = "comment_deleted"
)

// Event is the envelope written to feed clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Publisher routes events to the feed. With Redis every instance receives the
// event through its subscriber; without it the local hub is written directly.
type Publisher struct {
	hub      *Hub
	notifier *Notifier
}

// NewPublisher returns a Publisher. Either argument may be nil.
func NewPublisher(hub *Hub, notifier *Notifier) *Publisher {
	return &Publisher{hub: hub, notifier: notifier}
}

// Publish encodes and delivers an event. Failures are logged, never returned.
func (p *Publisher) Publish(ctx context.Context, eventType string, payload any) {
	if p == nil {
		return
	}

	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to marshal feed event",
			slog.String("type", eventType), slog.String("error", err.Error()))
		return
	}
	observability.ForumEvents.WithLabelValues(eventType).Inc()

	if p.notifier.Enabled() {
		err := p.notifier.Publish(ctx, string(data))
		if err == nil {
			return
		}
		middleware.Logger.WarnContext(ctx, "feed publish failed, delivering locally",
			slog.String("type", eventType), slog.String("error", err.Error()))
	}
	if p.hub != nil {
		p.hub.BroadcastAll(string(data))
	}
}
