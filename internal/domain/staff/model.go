package staff

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var validRoles = map[string]bool{
	"admin": true, "doctor": true, "nurse": true,
}

// Profile is one staff member.
type Profile struct {
	UserID         string `json:"userId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Specialization string `json:"specialization,omitempty"`
	Phone          string `json:"phone,omitempty"`
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

// RegisterForm is the request body for creating a staff account.
type RegisterForm struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Specialization string `json:"specialization,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

func (f RegisterForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.Email, validation.Required, is.EmailFormat),
		validation.Field(&f.Password, validation.Required, validation.Length(8, 0)),
		validation.Field(&f.Role, validation.Required, validation.By(roleRule)),
	)
}

func roleRule(value interface{}) error {
	role, _ := value.(string)
	if !validRoles[role] {
		return validation.NewError("validation_role", "must be admin, doctor or nurse")
	}
	return nil
}

// ListData is the envelope payload of the staff listing.
type ListData struct {
	Staff      []Profile `json:"staff"`
	TotalCount int       `json:"totalCount"`
}
