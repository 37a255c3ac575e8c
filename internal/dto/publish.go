package dto

// PublishResult is the per-platform outcome of a social publish dispatch.
type PublishResult struct {
	Platform  string `json:"platform"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageID,omitempty"`
	Error     string `json:"error,omitempty"`
}

// PublishResponse summarizes one publish dispatch across all platforms.
type PublishResponse struct {
	Message string          `json:"message"`
	Results []PublishResult `json:"results"`
}
