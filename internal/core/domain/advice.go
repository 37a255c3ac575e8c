package domain

// AdvicePost is a short editorial note shown next to the public rates page.
type AdvicePost struct {
	PostID      string `json:"postID"` // Primary key (UUID)
	Title       string `json:"title"`
	Body        string `json:"body"`
	IsPublished bool   `json:"isPublished"`
	AuditFields
}
