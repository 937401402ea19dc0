package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Action is what happened to a record.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	// ActionOverdue is published by the reminder worker, not by a write.
	ActionOverdue Action = "overdue"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted, ActionOverdue:
		return true
	}
	return false
}

// ChangeMessage is a lightweight notification that a record changed.
// It carries only identifiers; consumers fetch the record themselves.
type ChangeMessage struct {
	MessageID string    `json:"messageId"`
	Entity    string    `json:"entity"`
	Action    Action    `json:"action"`
	ID        int64     `json:"id"`
	Revision  int64     `json:"revision"`
	FarmID    int64     `json:"farmId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(entity string, action Action, id, revision, farmID int64) *ChangeMessage {
	return &ChangeMessage{
		MessageID: uuid.NewString(),
		Entity:    entity,
		Action:    action,
		ID:        id,
		Revision:  revision,
		FarmID:    farmID,
		Timestamp: time.Now(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON decodes a message and rejects ones no handler could act on.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Entity == "" || msg.ID <= 0 {
		return nil, errors.New("change message missing entity or id")
	}
	if !msg.Action.Valid() {
		return nil, errors.New("change message has unknown action " + string(msg.Action))
	}
	return &msg, nil
}
