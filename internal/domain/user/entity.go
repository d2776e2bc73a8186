package user

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "user-management-service/pkg/errors"
)

const (
	// MinNameLength is the minimum number of characters in a trimmed name.
	MinNameLength = 2

	MsgNameTooShort = "name too short"
	MsgInvalidEmail = "invalid email"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// nowFunc is swapped in tests.
var nowFunc = func() time.Time { return time.Now().UTC() }

// User represents a user entity in the system.
// Values are snapshots: use New, NewWithID or WithUpdatedFields to obtain a
// validated value instead of mutating fields.
type User struct {
	ID        string    // ID is the unique identifier for the user
	Name      string    // Name is the full name of the user
	Email     string    // Email is the unique email address of the user
	CreatedAt time.Time // CreatedAt is set once when the user is first created
}

// New creates a validated user with a freshly generated ID.
func New(name, email string) (*User, error) {
	return NewWithID("", name, email)
}

// NewWithID creates a validated user. An empty id is replaced by a generated one.
func NewWithID(id, name, email string) (*User, error) {
	if err := validate(name, email); err != nil {
		return nil, err
	}
	if id == "" {
		id = NewID()
	}
	return &User{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: nowFunc(),
	}, nil
}

// NewID returns an opaque identifier that is unique in practice.
func NewID() string {
	return uuid.NewString()
}

// WithUpdatedFields returns a new validated user that keeps the receiver's ID
// and CreatedAt and replaces each non-nil field. The receiver is not modified.
func (u *User) WithUpdatedFields(name, email *string) (*User, error) {
	next := *u
	if name != nil {
		next.Name = *name
	}
	if email != nil {
		next.Email = *email
	}
	if err := validate(next.Name, next.Email); err != nil {
		return nil, err
	}
	return &next, nil
}

// SameIdentity reports business equality: two users are the same person iff
// their emails match exactly.
func (u *User) SameIdentity(other *User) bool {
	if u == nil || other == nil {
		return false
	}
	return u.Email == other.Email
}

// validate checks the name first, then the email.
func validate(name, email string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < MinNameLength {
		return apperrors.NewValidationError("name", MsgNameTooShort)
	}
	if !ValidEmail(email) {
		return apperrors.NewValidationError("email", MsgInvalidEmail)
	}
	return nil
}

// ValidEmail reports whether email has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
