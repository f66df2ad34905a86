package repository

import (
	"context"

	"audition-api/internal/domain/entity"
)

type CommentRepository interface {
	List(ctx context.Context, filters Filters) ([]entity.PostComment, error)
	ListForPost(ctx context.Context, postID int) ([]entity.PostComment, error)
}
