package partsagent

import (
	"ai-autoparts-be/pkg/catalog"
	"ai-autoparts-be/pkg/llm"
)

// Status is the terminal outcome of one lookup.
type Status string

const (
	StatusSuccess    Status = "SUCCESS"
	StatusNoMatch    Status = "NO_MATCH"
	StatusError      Status = "ERROR"
	StatusMaxRetries Status = "MAX_RETRIES"
)

// errTag values recorded by the parts list step. The router treats both as
// retryable since a fresh category pick may recover either.
const (
	errAPIUnavailable = "API_UNAVAILABLE"
	errAPIError       = "API_ERROR"
)

// MaxRetries caps how many times a failed category pick is retried before the
// lookup gives up. Combined with the initial attempt this bounds catalog
// article queries at MaxRetries+1 per lookup.
const MaxRetries = 3

// state is the single mutable record threaded through the workflow steps.
// Steps mutate it in place; the router reads errTag and retryCount to decide
// where to go next.
type state struct {
	partDescription string
	categories      string
	categoryID      string
	categoryName    string
	partsList       []catalog.Article
	chatHistory     []llm.Message
	retryCount      int
	result          result
	errTag          string
	vehicleID       int
	countryFilterID int
	oemNumbers      []string
	imageURL        string
}

type result struct {
	status   Status
	partName string
	message  string
}

func (r result) isZero() bool {
	return r.status == ""
}

// Input carries everything a single lookup needs.
type Input struct {
	PartDescription string
	Categories      catalog.CategoryTree
	VehicleID       int
	CountryFilterID int
}

// Outcome is the final answer of one lookup.
type Outcome struct {
	Status       Status   `json:"status"`
	PartName     string   `json:"partName,omitempty"`
	CategoryID   string   `json:"categoryId,omitempty"`
	CategoryName string   `json:"categoryName,omitempty"`
	Message      string   `json:"message,omitempty"`
	RetryCount   int      `json:"retryCount"`
	OEMNumbers   []string `json:"oemNumbers"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}
