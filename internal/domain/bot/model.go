package bot

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Message roles in a chat transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chatbot conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	PatientID string    `json:"patientId,omitempty"`
	FileName  string    `json:"fileName,omitempty"`
	At        time.Time `json:"at"`
}

// Query is one question for the assistant, optionally scoped to a patient
// and optionally carrying an attached document.
type Query struct {
	Text      string
	PatientID string
	FileName  string
	Content   []byte
}

func (q Query) Validate() error {
	return validation.Errors{
		"query": validation.Validate(q.Text, validation.Required, validation.Length(1, 4000)),
	}.Filter()
}

// Reply is the envelope payload of the bot endpoint.
type Reply struct {
	Answer    string `json:"answer"`
	PatientID string `json:"patientId,omitempty"`
}
