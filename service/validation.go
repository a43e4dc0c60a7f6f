package service

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
)

const (
	maxNameLength  = 256
	maxEmailLength = 320
)

func ValidateSignup(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrBadRequest)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name too long", ErrBadRequest)
	}
	return ValidateEmail(email)
}

// ValidateEmail accepts a bare address only. Display names such as
// "A <a@x.com>" are rejected so the raw string stays the unique key.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrBadRequest)
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("%w: email too long", ErrBadRequest)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email", ErrBadRequest)
	}
	return nil
}

// ParseNoteId parses a decimal path parameter into a note id.
func ParseNoteId(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", ErrBadRequest)
	}
	return id, nil
}

// Store key prefixes keep the email index and notes in separate namespaces.
const (
	emailKeyPrefix = "email:"
	noteKeyPrefix  = "note:"
)

func emailKey(email string) string {
	return emailKeyPrefix + email
}

func noteKey(id int64) string {
	return noteKeyPrefix + strconv.FormatInt(id, 10)
}
