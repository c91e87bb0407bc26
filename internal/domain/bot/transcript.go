package bot

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Transcript is the in-memory conversation log, insertion ordered. Safe for
// concurrent use.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append records a turn and returns it with its assigned ID and timestamp.
func (t *Transcript) Append(role, text, patientID, fileName string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		PatientID: patientID,
		FileName:  fileName,
		At:        time.Now().UTC(),
	}
	t.mu.Lock()
	t.messages = append(t.messages, msg)
	t.mu.Unlock()
	return msg
}

// Messages returns a copy of the conversation in order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Message(nil), t.messages...)
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

func (t *Transcript) Clear() {
	t.mu.Lock()
	t.messages = nil
	t.mu.Unlock()
}

// ExportJSON writes the transcript as an indented JSON array.
func (t *Transcript) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.Messages())
}

// ExportText writes the transcript as a readable dialog.
func (t *Transcript) ExportText(w io.Writer) error {
	for _, msg := range t.Messages() {
		suffix := ""
		if msg.FileName != "" {
			suffix = fmt.Sprintf(" [attached: %s]", msg.FileName)
		}
		if _, err := fmt.Fprintf(w, "[%s] %s%s: %s\n",
			msg.At.Format(time.RFC3339), msg.Role, suffix, msg.Text); err != nil {
			return err
		}
	}
	return nil
}
