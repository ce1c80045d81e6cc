// Package prompts holds the embedded prompt templates shared by the agents.
// Templates use {placeholder} markers filled in via Render.
package prompts

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed templates/*.md
var templates embed.FS

// Template names.
const (
	System          = "system"
	InferCategory   = "infer_category"
	InvalidCategory = "invalid_category"
	MatchPart       = "match_part"
	SelectModel     = "select_model"
	ExtractVIN      = "extract_vin"
	DetectObjects   = "detect_objects"
	VerifyMatch     = "verify_match"
)

// Get returns the raw template text. Missing templates are a programming
// error, not a runtime condition.
func Get(name string) (string, error) {
	data, err := templates.ReadFile("templates/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown prompt template %q: %w", name, err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// Render fills {key} placeholders in a template with the given values.
func Render(name string, vars map[string]string) (string, error) {
	text, err := Get(name)
	if err != nil {
		return "", err
	}
	for key, value := range vars {
		text = strings.ReplaceAll(text, "{"+key+"}", value)
	}
	return text, nil
}
