package vin

import (
	"errors"
	"regexp"
	"strings"
)

// VINs are 17 characters of digits and uppercase letters, excluding I, O and
// Q which are banned to avoid confusion with 1 and 0.
var vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

var ErrInvalidVIN = errors.New("invalid vin")

// Normalize uppercases and strips whitespace from a candidate VIN.
func Normalize(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}

// Validate reports whether the candidate is a well formed VIN after
// normalization. It checks shape only, not the check digit, since many
// non-US vehicles do not carry one.
func Validate(raw string) (string, error) {
	normalized := Normalize(raw)
	if !vinPattern.MatchString(normalized) {
		return "", ErrInvalidVIN
	}
	return normalized, nil
}

// Extract scans free text for the first well formed VIN. OCR output often
// surrounds the number with labels and noise.
func Extract(text string) (string, bool) {
	candidate := regexp.MustCompile(`[A-HJ-NPR-Za-hj-npr-z0-9]{17}`)
	for _, match := range candidate.FindAllString(text, -1) {
		if normalized, err := Validate(match); err == nil {
			return normalized, true
		}
	}
	return "", false
}
