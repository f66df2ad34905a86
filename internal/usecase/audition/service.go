// Package audition holds the read use cases of the audition API: listing and
// fetching posts and their comments from the upstream.
package audition

import (
	"context"
	"fmt"
	"strconv"

	"audition-api/internal/domain/entity"
	"audition-api/internal/repository"
)

// PostFilter narrows a post listing. Nil fields are not sent upstream.
type PostFilter struct {
	UserID *int
	ID     *int
}

// CommentFilter narrows a comment listing. Nil fields are not sent upstream.
type CommentFilter struct {
	PostID *int
}

// Service provides the post and comment use cases.
// Every call results in exactly one repository call.
type Service struct {
	Posts    repository.PostRepository
	Comments repository.CommentRepository
}

// ListPosts returns the posts matching f in upstream order.
func (s *Service) ListPosts(ctx context.Context, f PostFilter) ([]entity.Post, error) {
	filters := repository.Filters{}
	setInt(filters, "userId", f.UserID)
	setInt(filters, "id", f.ID)

	posts, err := s.Posts.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPost returns the post with the given id. A nil post with a nil error means
// the upstream answered successfully with an empty body.
func (s *Service) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	post, err := s.Posts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return post, nil
}

// ListCommentsForPost returns the comments of one post.
func (s *Service) ListCommentsForPost(ctx context.Context, postID int) ([]entity.PostComment, error) {
	comments, err := s.Comments.ListForPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments for post %d: %w", postID, err)
	}
	return comments, nil
}

// ListComments returns the comments matching f.
func (s *Service) ListComments(ctx context.Context, f CommentFilter) ([]entity.PostComment, error) {
	filters := repository.Filters{}
	setInt(filters, "postId", f.PostID)

	comments, err := s.Comments.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func setInt(filters repository.Filters, key string, v *int) {
	if v != nil {
		filters[key] = strconv.Itoa(*v)
	}
}
