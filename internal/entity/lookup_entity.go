package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Lookup kinds.
const (
	LookupKindParts        = "parts"
	LookupKindVin          = "vin"
	LookupKindImageSearch  = "image_search"
	LookupKindReverseImage = "reverse_image"
)

type Lookup struct {
	Id         uuid.UUID
	Kind       string
	Query      string
	VehicleId  int
	Status     string
	RetryCount int
	Result     json.RawMessage
	CreatedAt  time.Time
}
