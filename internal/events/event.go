package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope every outward notification is wrapped in.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Event types published by this service
const (
	EventSessionSignedIn  = "session.signed_in"
	EventSessionSignedOut = "session.signed_out"

	EventProfileCreated  = "profile.created"
	EventProfileUpdated  = "profile.updated"
	EventProfileRemoved  = "profile.removed"
	EventProfileSelected = "profile.selected"

	EventBookmarkToggled         = "bookmark.toggled"
	EventTrainingProgressUpdated = "training.progress_updated"
)

const (
	eventSource  = "member-portal"
	eventVersion = "1.0"
)

// NewEvent builds an envelope for the given type and payload.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
