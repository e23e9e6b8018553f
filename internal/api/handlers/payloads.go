package handlers

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// bcrypt only accepts passwords up to this many bytes.
const maxPasswordBytes = 72

const (
	msgNameRequired    = "Name is required"
	msgInvalidEmail    = "Kindly enter a valid email address"
	msgPasswordLength  = "Password must be at least 6 characters long"
	msgPasswordMissing = "Password is required"
	msgPasswordTooLong = "Password must be at most 72 bytes long"

	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid Credentials"
	msgInvalidBody        = "Invalid request body"
)

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration fields.
func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required.Error(msgNameRequired)),
		validation.Field(&p.Email, validation.Required.Error(msgInvalidEmail), is.Email.Error(msgInvalidEmail)),
		validation.Field(&p.Password,
			validation.Required.Error(msgPasswordLength),
			validation.RuneLength(6, 0).Error(msgPasswordLength),
			validation.Length(0, maxPasswordBytes).Error(msgPasswordTooLong),
		),
	)
}

// AuthPayload defines the structure for login requests. Password is a
// pointer so that a missing key can be told apart from an empty string.
type AuthPayload struct {
	Email    string  `json:"email"`
	Password *string `json:"password"`
}

// Validate checks the login fields. Only the presence of password is required.
func (p AuthPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required.Error(msgInvalidEmail), is.Email.Error(msgInvalidEmail)),
		validation.Field(&p.Password, validation.NotNil.Error(msgPasswordMissing)),
	)
}
