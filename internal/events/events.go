// Package events publishes domain events (messages sent, sessions finished,
// progress recorded) to an AMQP topic exchange for downstream consumers
// such as notification workers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routing keys.
const (
	TypeMessageSent      = "message.sent"
	TypeSessionCompleted = "session.completed"
	TypeSessionSkipped   = "session.skipped"
	TypeSetLogged        = "session.set_logged"
	TypeProgressLogged   = "progress.logged"
	TypeMealToggled      = "diet.meal_toggled"
)

// Event is the envelope put on the wire.
type Event struct {
	Type       string             `json:"type"`
	UserID     primitive.ObjectID `json:"userId"`
	OccurredAt time.Time          `json:"occurredAt"`
	Data       any                `json:"data,omitempty"`
}

func New(eventType string, userID primitive.ObjectID, data any) Event {
	return Event{
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
