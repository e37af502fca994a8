package domain

import (
	"errors"
	"strings"
	"time"
)

const birthDateLayout = "02/01/2006"

var (
	ErrBirthDateFormat   = errors.New("invalid format")
	ErrBirthDateInFuture = errors.New("cannot be in the future")
)

// ParseBirthDate parses a strict dd/MM/yyyy value in loc.
// Blank input means "not provided yet" and yields neither a date nor an error.
func ParseBirthDate(input string, now time.Time, loc *time.Location) (*time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	// time.Parse already rejects out-of-range days such as 31/02.
	date, err := time.ParseInLocation(birthDateLayout, input, loc)
	if err != nil {
		return nil, ErrBirthDateFormat
	}
	if date.After(now) {
		return nil, ErrBirthDateInFuture
	}
	return &date, nil
}
