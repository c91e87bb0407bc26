package report

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var validTypes = map[string]bool{
	"lab": true, "imaging": true, "discharge": true, "prescription": true, "other": true,
}

// Report is one uploaded document in a patient's record.
type Report struct {
	ReportID   string     `json:"reportId"`
	HealthID   string     `json:"healthId"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	FileName   string     `json:"fileName,omitempty"`
	URL        string     `json:"url,omitempty"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
}

// UploadForm describes the document being attached.
type UploadForm struct {
	HealthID string
	Name     string
	Type     string
	FileName string
	Content  []byte
}

func (f UploadForm) Validate() error {
	return validation.Errors{
		"healthId": validation.Validate(f.HealthID, validation.Required),
		"name":     validation.Validate(f.Name, validation.Required, validation.Length(1, 200)),
		"type":     validation.Validate(f.Type, validation.Required, validation.By(typeRule)),
		"fileName": validation.Validate(f.FileName, validation.Required),
		"content":  validation.Validate(f.Content, validation.Required),
	}.Filter()
}

func typeRule(value interface{}) error {
	t, _ := value.(string)
	if !validTypes[t] {
		return validation.NewError("validation_report_type", "unrecognized report type")
	}
	return nil
}

// ListData is the envelope payload of the report listing.
type ListData struct {
	Reports    []Report `json:"reports"`
	TotalCount int      `json:"totalCount"`
}
