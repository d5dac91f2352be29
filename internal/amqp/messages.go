package amqp

import (
	"encoding/json"
	"time"
)

const (
	EntityBill    = "bill"
	EntityPayment = "payment"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionPaid    = "paid"
)

// EventMessage is a lightweight notification that a bill or payment
// changed. Consumers fetch the full record from the database by id.
type EventMessage struct {
	Entity    string    `json:"entity"`
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEventMessage creates an event for an entity mutation
func NewEventMessage(entity string, id int64, action string) *EventMessage {
	return &EventMessage{
		Entity:    entity,
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EventMessageFromJSON creates a message from JSON bytes
func EventMessageFromJSON(data []byte) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
