package events

import "time"

// Event type codes for the lookup lifecycle.
const (
	TypePartsLookupCompleted = "PARTS_LOOKUP_COMPLETED"
	TypeVinLookupCompleted   = "VIN_LOOKUP_COMPLETED"
	TypeImageSearchPerformed = "IMAGE_SEARCH_PERFORMED"
)

// NewPartsLookupCompleted records the outcome of one parts lookup batch item.
func NewPartsLookupCompleted(lookupID, partDescription, status string, vehicleID, retryCount int) Event {
	return BaseEvent{
		Type: TypePartsLookupCompleted,
		Data: map[string]interface{}{
			"lookupId":        lookupID,
			"partDescription": partDescription,
			"status":          status,
			"vehicleId":       vehicleID,
			"retryCount":      retryCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewVinLookupCompleted records a VIN decode, successful or not.
func NewVinLookupCompleted(lookupID, vin, status string) Event {
	return BaseEvent{
		Type: TypeVinLookupCompleted,
		Data: map[string]interface{}{
			"lookupId": lookupID,
			"vin":      vin,
			"status":   status,
		},
		OccurredAt: time.Now(),
	}
}

// NewImageSearchPerformed records an image or reverse image search.
func NewImageSearchPerformed(lookupID, query, kind string, resultCount int) Event {
	return BaseEvent{
		Type: TypeImageSearchPerformed,
		Data: map[string]interface{}{
			"lookupId":    lookupID,
			"query":       query,
			"kind":        kind,
			"resultCount": resultCount,
		},
		OccurredAt: time.Now(),
	}
}
