package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrUsernameTaken       = errors.New("this username is already taken")
	ErrInvalidUsername     = errors.New("invalid username (3-30 chars: letters, digits, _ or .)")
	ErrBirthDateInFuture   = errors.New("date of birth cannot be in the future")
	ErrProfileInvalidOwner = errors.New("profile must belong to a user")
	ErrUsernameLocked      = errors.New("username cannot be changed once set")
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

// Profile holds the optional account details shown on the settings screen.
type Profile struct {
	UserID      string    `json:"user_id" db:"user_id"`
	Email       string    `json:"email" db:"-"`
	Username    *string   `json:"username" db:"username"`
	DateOfBirth *Date     `json:"date_of_birth" db:"date_of_birth"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NormalizeUsername lower-cases and trims a username; empty means "unset".
func NormalizeUsername(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	if !usernameRegex.MatchString(s) {
		return "", ErrInvalidUsername
	}
	return s, nil
}

func ValidateBirthDate(dob, today Date) error {
	if !dob.IsZero() && dob.After(today) {
		return ErrBirthDateInFuture
	}
	return nil
}

// SetUsername assigns a normalized username. Once a username is stored it
// can only be re-submitted unchanged.
func (p *Profile) SetUsername(raw string) error {
	username, err := NormalizeUsername(raw)
	if err != nil {
		return err
	}
	if username == "" {
		return nil
	}
	if p.Username != nil && *p.Username != username {
		return ErrUsernameLocked
	}
	p.Username = &username
	return nil
}

func (p *Profile) SetDateOfBirth(dob *Date, today Date) error {
	if dob == nil || dob.IsZero() {
		p.DateOfBirth = nil
		return nil
	}
	if err := ValidateBirthDate(*dob, today); err != nil {
		return err
	}
	d := *dob
	p.DateOfBirth = &d
	return nil
}
