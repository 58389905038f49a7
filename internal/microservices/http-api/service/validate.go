package service

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	msgRequired = "This field may not be blank."
	msgTooLong  = "Ensure this field has no more than %d characters."
	msgNoObject = "Invalid pk \"%d\" - object does not exist."
)

// requireText trims value and records a message on v when it is blank or
// longer than maxRunes. The trimmed value is returned.
func requireText(v *ValidationError, field, value string, maxRunes int) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		v.Add(field, msgRequired)
	case utf8.RuneCountInString(value) > maxRunes:
		v.Add(field, fmt.Sprintf(msgTooLong, maxRunes))
	}
	return value
}
