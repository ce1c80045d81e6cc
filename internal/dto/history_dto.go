package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type LookupHistoryItem struct {
	Id         uuid.UUID       `json:"id"`
	Kind       string          `json:"kind"`
	Query      string          `json:"query"`
	VehicleId  int             `json:"vehicle_id,omitempty"`
	Status     string          `json:"status"`
	RetryCount int             `json:"retry_count"`
	Result     json.RawMessage `json:"result,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type LookupHistoryResponse struct {
	Total int                 `json:"total"`
	Items []LookupHistoryItem `json:"items"`
}

// LookupCompletedMessage is the payload published on the in-process bus when
// any lookup finishes. The consumer persists it as history.
type LookupCompletedMessage struct {
	Kind       string          `json:"kind"`
	Query      string          `json:"query"`
	VehicleId  int             `json:"vehicle_id"`
	Status     string          `json:"status"`
	RetryCount int             `json:"retry_count"`
	Result     json.RawMessage `json:"result"`
}
