package dto

import (
	"time"

	"github.com/kursboard/kursboard/internal/core/domain"
)

// CreateAdviceRequest defines the data needed to create an advice post.
type CreateAdviceRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"required"`
}

// UpdateAdviceRequest carries partial updates to an advice post.
type UpdateAdviceRequest struct {
	Title       *string `json:"title,omitempty"`
	Body        *string `json:"body,omitempty"`
	IsPublished *bool   `json:"isPublished,omitempty"`
}

// AdviceResponse is one advice post in API responses.
type AdviceResponse struct {
	PostID      string    `json:"postID"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToAdviceResponse converts a domain.AdvicePost to its DTO.
func ToAdviceResponse(post *domain.AdvicePost) AdviceResponse {
	return AdviceResponse{
		PostID:      post.PostID,
		Title:       post.Title,
		Body:        post.Body,
		IsPublished: post.IsPublished,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.LastUpdatedAt,
	}
}

// ToListAdviceResponse converts a slice of posts to DTOs.
func ToListAdviceResponse(posts []domain.AdvicePost) []AdviceResponse {
	res := make([]AdviceResponse, len(posts))
	for i := range posts {
		res[i] = ToAdviceResponse(&posts[i])
	}
	return res
}
