package service

import "errors"

// Validation, conflict and authentication failures. Their messages are shown
// to the user as they are.
var (
	ErrFieldsRequired      = errors.New("All fields are required.")
	ErrInvalidEmail        = errors.New("Invalid email address.")
	ErrPasswordTooShort    = errors.New("Password must be at least 6 characters.")
	ErrInvalidUsername     = errors.New("Username must be 3–20 characters (letters, numbers, underscores).")
	ErrUsernameTaken       = errors.New("Username already taken.")
	ErrEmailTaken          = errors.New("An account with that email already exists.")
	ErrCredentialsRequired = errors.New("Please enter your credentials.")
	ErrInvalidCredentials  = errors.New("Invalid username/email or password.")
)

// ErrIDExhausted means the id generator kept returning ids already in use.
var ErrIDExhausted = errors.New("could not allocate a unique account id")

var userFacing = []error{
	ErrFieldsRequired,
	ErrInvalidEmail,
	ErrPasswordTooShort,
	ErrInvalidUsername,
	ErrUsernameTaken,
	ErrEmailTaken,
	ErrCredentialsRequired,
	ErrInvalidCredentials,
}

// UserMessage returns the message to show for err and whether err is one of
// the user-facing failures above.
func UserMessage(err error) (string, bool) {
	for _, target := range userFacing {
		if errors.Is(err, target) {
			return target.Error(), true
		}
	}
	return "", false
}
