package domain

import (
	"encoding/json"
	"time"
)

// ActionType enumerates the kinds of mutating actions the audit trail records.
type ActionType string

const (
	ActionLogin            ActionType = "login"
	ActionLogout           ActionType = "logout"
	ActionRateUpdate       ActionType = "rate_update"
	ActionRateCreate       ActionType = "rate_create"
	ActionRateDelete       ActionType = "rate_delete"
	ActionVisibilityToggle ActionType = "visibility_toggle"
	ActionSocialPublish    ActionType = "social_publish"
	ActionAdviceCreate     ActionType = "advice_create"
	ActionAdviceUpdate     ActionType = "advice_update"
	ActionAccessDenied     ActionType = "access_denied"
)

// ResourceType enumerates the categories an action targets.
type ResourceType string

const (
	ResourceRate   ResourceType = "rate"
	ResourceUser   ResourceType = "user"
	ResourceAdvice ResourceType = "advice"
	ResourceSocial ResourceType = "social"
)

// OutcomeType is the result of an attempted action.
type OutcomeType string

const (
	OutcomeSuccess OutcomeType = "success"
	OutcomeFailure OutcomeType = "failure"
	OutcomePending OutcomeType = "pending"
)

// ActivityLogEntry is one append-only audit record. Entries are written by
// the audit service only and never mutated after creation.
type ActivityLogEntry struct {
	EntryID   string          `json:"entryID"` // Primary key (UUID)
	ActorID   *string         `json:"actorID"` // Nil for anonymous actors
	Action    ActionType      `json:"action"`
	Resource  ResourceType    `json:"resource"`
	Outcome   OutcomeType     `json:"outcome"`
	ErrorText string          `json:"errorText,omitempty"`
	Detail    json.RawMessage `json:"detail,omitempty"` // Free-form structured payload
	CreatedAt time.Time       `json:"createdAt"`
}
