// Package redact scrubs PII from text and structured values before they
// leave the system, e.g. in job payloads handed to outside processors.
package redact

import (
	"regexp"
	"strings"
)

// Replacement markers
const (
	EmailMarker = "[REDACTED_EMAIL]"
	PhoneMarker = "[REDACTED_PHONE]"
	ValueMarker = "[REDACTED]"
	TextMarker  = "[REDACTED_TEXT]"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	// Eight or more digits with optional separators and country code reads
	// as a phone number.
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{6,}\d`)
)

// redaction modes for the structured walk, ordered by severity
type mode int

const (
	modeNone mode = iota
	modeText
	modeIdentity
)

// identityKeys name a person directly. Their values become ValueMarker
// regardless of content. Keys are matched after lowercasing and stripping
// separators, so "first_name" and "firstName" both hit "firstname".
var identityKeys = map[string]bool{
	"firstname":   true,
	"lastname":    true,
	"name":        true,
	"fullname":    true,
	"email":       true,
	"phone":       true,
	"phonenumber": true,
	"address":     true,
	"ssn":         true,
	"dob":         true,
}

// textKeys hold free prose that can quote names, numbers, or anything else
// a customer typed. Their string values are dropped wholesale as TextMarker
// instead of trusting the pattern pass.
var textKeys = map[string]bool{
	"message":         true,
	"body":            true,
	"summary":         true,
	"instruction":     true,
	"subject":         true,
	"outcome":         true,
	"vehicleinterest": true,
	"notes":           true,
}

// Text replaces emails and phone numbers found in free text
func Text(s string) string {
	s = emailPattern.ReplaceAllString(s, EmailMarker)
	s = phonePattern.ReplaceAllStringFunc(s, func(match string) string {
		if digitCount(match) < 8 {
			return match
		}
		return PhoneMarker
	})
	return s
}

// Value walks a decoded JSON-style value (maps, slices, strings) and returns
// a copy with PII removed. Values under identity keys become ValueMarker,
// prose under free-text keys becomes TextMarker, and every other string gets
// the Text pattern pass. The input is never mutated.
func Value(v interface{}) interface{} {
	return walk(v, modeNone)
}

func walk(v interface{}, m mode) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = walk(item, stronger(m, keyMode(k)))
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = walk(item, m)
		}
		return out
	case string:
		if val == "" {
			return val
		}
		switch m {
		case modeIdentity:
			return ValueMarker
		case modeText:
			return TextMarker
		default:
			return Text(val)
		}
	default:
		if m == modeIdentity {
			return ValueMarker
		}
		return v
	}
}

func keyMode(key string) mode {
	k := normalizeKey(key)
	switch {
	case identityKeys[k]:
		return modeIdentity
	case textKeys[k]:
		return modeText
	default:
		return modeNone
	}
}

func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "")
	return strings.ReplaceAll(key, "-", "")
}

func stronger(a, b mode) mode {
	if a > b {
		return a
	}
	return b
}

// Initials reduces a first/last name pair to spaced initials, e.g.
// ("Jordan", "Pike") to "J. P.". When both parts are blank it returns
// "Unknown".
func Initials(first, last string) string {
	parts := make([]string, 0, 2)
	for _, name := range []string{first, last} {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		parts = append(parts, strings.ToUpper(string([]rune(name)[0]))+".")
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	return strings.Join(parts, " ")
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
