package dto

import (
	"encoding/json"
	"time"

	"github.com/kursboard/kursboard/internal/core/domain"
)

// ActivityEntryResponse is one audit-trail record in API responses.
type ActivityEntryResponse struct {
	EntryID   string          `json:"entryID"`
	ActorID   *string         `json:"actorID"`
	Action    string          `json:"action"`
	Resource  string          `json:"resource"`
	Outcome   string          `json:"outcome"`
	ErrorText string          `json:"errorText,omitempty"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToActivityEntryResponse converts a domain.ActivityLogEntry to its DTO.
func ToActivityEntryResponse(entry *domain.ActivityLogEntry) ActivityEntryResponse {
	return ActivityEntryResponse{
		EntryID:   entry.EntryID,
		ActorID:   entry.ActorID,
		Action:    string(entry.Action),
		Resource:  string(entry.Resource),
		Outcome:   string(entry.Outcome),
		ErrorText: entry.ErrorText,
		Detail:    entry.Detail,
		CreatedAt: entry.CreatedAt,
	}
}

// ToListActivityEntryResponse converts a slice of entries to DTOs.
func ToListActivityEntryResponse(entries []domain.ActivityLogEntry) []ActivityEntryResponse {
	res := make([]ActivityEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToActivityEntryResponse(&entries[i])
	}
	return res
}
