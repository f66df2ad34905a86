// Package post provides HTTP handlers for the post endpoints:
// GET /posts, GET /posts/{id} and GET /posts/{id}/comments.
package post

import (
	"audition-api/internal/domain/entity"
	"audition-api/internal/handler/http/comment"
)

// DTO represents the JSON structure of a post.
type DTO struct {
	ID     int    `json:"id" example:"1"`
	UserID int    `json:"userId" example:"1"`
	Title  string `json:"title" example:"sunt aut facere repellat provident"`
	Body   string `json:"body" example:"quia et suscipit"`
}

func toDTO(p entity.Post) DTO {
	return DTO{ID: p.ID, UserID: p.UserID, Title: p.Title, Body: p.Body}
}

func toDTOs(posts []entity.Post) []DTO {
	out := make([]DTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, toDTO(p))
	}
	return out
}

func commentDTOs(comments []entity.PostComment) []comment.DTO {
	return comment.ToDTOs(comments)
}
