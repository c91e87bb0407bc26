package healthevent

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var validTypes = map[string]bool{
	"surgery": true, "scan": true, "therapy": true,
	"consultation": true, "admission": true, "discharge": true, "other": true,
}

var validStatuses = map[string]bool{
	"scheduled": true, "completed": true, "cancelled": true,
}

// Event is one entry in a patient's health timeline. History is immutable
// except for doctor edits through the update endpoint.
type Event struct {
	EventID     string     `json:"eventId"`
	HealthID    string     `json:"healthId"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Description string     `json:"description,omitempty"`
	Outcome     string     `json:"outcome,omitempty"`
	OccurredAt  *time.Time `json:"occurredAt,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

func (e Event) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.HealthID, validation.Required),
		validation.Field(&e.Type, validation.Required, validation.By(typeRule)),
		validation.Field(&e.Status, validation.Required, validation.By(statusRule)),
	)
}

func typeRule(value interface{}) error {
	t, _ := value.(string)
	if !validTypes[t] {
		return validation.NewError("validation_event_type", "unrecognized event type")
	}
	return nil
}

func statusRule(value interface{}) error {
	s, _ := value.(string)
	if !validStatuses[s] {
		return validation.NewError("validation_event_status", "must be scheduled, completed or cancelled")
	}
	return nil
}

// ListData is the envelope payload of the event listing.
type ListData struct {
	Events     []Event `json:"events"`
	TotalCount int     `json:"totalCount"`
}
