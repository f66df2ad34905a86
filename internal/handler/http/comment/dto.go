// Package comment provides the HTTP handler for GET /comments and the comment
// representation shared with the post handlers.
package comment

import "audition-api/internal/domain/entity"

// DTO represents the JSON structure of a comment.
type DTO struct {
	ID     int    `json:"id" example:"1"`
	PostID int    `json:"postId" example:"1"`
	Name   string `json:"name" example:"id labore ex et quam laborum"`
	Email  string `json:"email" example:"Eliseo@gardner.biz"`
	Body   string `json:"body" example:"laudantium enim quasi est quidem magnam"`
}

// ToDTOs converts comments to their JSON representation, preserving order.
// The result is never nil so an empty listing encodes as [].
func ToDTOs(comments []entity.PostComment) []DTO {
	out := make([]DTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, DTO{ID: c.ID, PostID: c.PostID, Name: c.Name, Email: c.Email, Body: c.Body})
	}
	return out
}
