package medication

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var validStatuses = map[string]bool{
	"active": true, "completed": true, "discontinued": true,
}

// Source distinguishes hand-entered medications from ones extracted out of
// a scanned prescription document.
const (
	SourceManual = "manual"
	SourceScan   = "scanned"
)

// Medication is one prescription line for a patient.
type Medication struct {
	MedicationID string `json:"medicationId"`
	HealthID     string `json:"healthId"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Status       string `json:"status"`
	Source       string `json:"source,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

func (m Medication) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.HealthID, validation.Required),
		validation.Field(&m.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.Dosage, validation.Required),
		validation.Field(&m.Frequency, validation.Required),
		validation.Field(&m.Status, validation.Required, validation.By(statusRule)),
	)
}

func statusRule(value interface{}) error {
	s, _ := value.(string)
	if !validStatuses[s] {
		return validation.NewError("validation_medication_status", "must be active, completed or discontinued")
	}
	return nil
}

// ListData is the envelope payload of the medication listing.
type ListData struct {
	Medications []Medication `json:"medications"`
	TotalCount  int          `json:"totalCount"`
}

// ScanResult is the envelope payload of a prescription scan upload: the
// medications the backend extracted from the document.
type ScanResult struct {
	Medications []Medication `json:"medications"`
	DocumentID  string       `json:"documentId,omitempty"`
}
