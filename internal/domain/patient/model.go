package patient

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Profile is one patient record. HealthID is the opaque key every
// patient-scoped endpoint is addressed by.
type Profile struct {
	PatientID       string     `json:"patientId"`
	HealthID        string     `json:"healthId"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	DateOfBirth     string     `json:"dob,omitempty"`
	Gender          string     `json:"gender,omitempty"`
	BloodGroup      string     `json:"bloodGroup,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	Address         string     `json:"address,omitempty"`
	AdmissionStatus string     `json:"admissionStatus,omitempty"`
	AdmittedAt      *time.Time `json:"admittedAt,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
}

func (p Profile) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

var validGenders = map[string]bool{
	"male": true, "female": true, "other": true,
}

// OnboardForm is the request body for admitting a new patient.
type OnboardForm struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dob"`
	Gender      string `json:"gender"`
	BloodGroup  string `json:"bloodGroup,omitempty"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
}

func (f OnboardForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.DateOfBirth, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&f.Gender, validation.Required, validation.By(genderRule)),
		validation.Field(&f.Phone, validation.Required),
		validation.Field(&f.Email, is.EmailFormat),
	)
}

func genderRule(value interface{}) error {
	gender, _ := value.(string)
	if !validGenders[gender] {
		return validation.NewError("validation_gender", "must be male, female or other")
	}
	return nil
}

// ListData is the envelope payload of the patient listing.
type ListData struct {
	Patients   []Profile `json:"patients"`
	TotalCount int       `json:"totalCount"`
}
