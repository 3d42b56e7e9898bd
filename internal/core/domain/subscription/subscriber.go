package subscription

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Status is the lifecycle state of a subscription.
type Status string

const (
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusConfirmed           Status = "confirmed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingConfirmation, StatusConfirmed:
		return true
	default:
		return false
	}
}

type Subscriber struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	SubscribedAt time.Time `json:"subscribed_at" db:"subscribed_at"`
	Status       Status    `json:"status" db:"status"`
}

// SignupRequest carries the raw form fields of a sign-up submission.
type SignupRequest struct {
	Email string `form:"email" json:"email"`
	Name  string `form:"name" json:"name"`
}

// ValidationError reports why a sign-up field was rejected. It is the only
// error kind the handlers translate to a client error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// forbiddenNameRunes would allow a subscriber name to break out of the
// contexts it gets interpolated into (URLs, HTML, SQL logs).
const forbiddenNameRunes = `/()"<>\{}`

var validate = validator.New()

// NewSubscriber validates raw form input and returns a subscriber in the
// pending_confirmation state. Invalid input never reaches persistence.
func NewSubscriber(name, email string) (*Subscriber, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	return &Subscriber{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		SubscribedAt: time.Now().UTC(),
		Status:       StatusPendingConfirmation,
	}, nil
}

func validateName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return &ValidationError{Field: "name", Reason: "must not contain control characters"}
		}
		if strings.ContainsRune(forbiddenNameRunes, r) {
			return &ValidationError{Field: "name", Reason: fmt.Sprintf("must not contain %q", r)}
		}
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return &ValidationError{Field: "email", Reason: "must not contain whitespace"}
	}
	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" || domain == "" {
		return &ValidationError{Field: "email", Reason: "must be of the form local@domain"}
	}
	if !strings.Contains(domain, ".") {
		return &ValidationError{Field: "email", Reason: "domain must contain a dot"}
	}
	if err := validate.Var(email, "email"); err != nil {
		return &ValidationError{Field: "email", Reason: "is not a valid email address"}
	}
	return nil
}
