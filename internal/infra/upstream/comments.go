package upstream

import (
	"context"
	"errors"
	"strconv"

	"audition-api/internal/domain/entity"
	"audition-api/internal/repository"
)

const msgCannotFindComments = "Cannot find comments"

// CommentClient implements repository.CommentRepository against /comments and
// /posts/{id}/comments.
type CommentClient struct {
	client *Client
}

var _ repository.CommentRepository = (*CommentClient)(nil)

// NewCommentClient creates a CommentClient that shares c's transport.
func NewCommentClient(c *Client) *CommentClient {
	return &CommentClient{client: c}
}

// ListForPost returns the comments of a single post, in upstream order.
func (cc *CommentClient) ListForPost(ctx context.Context, postID int) ([]entity.PostComment, error) {
	id := strconv.Itoa(postID)
	msg := "Cannot find comments with Post id " + id
	return cc.list(ctx, cc.client.endpoint(nil, "posts", id, "comments"), msg)
}

// List returns the comments matching filters, in upstream order.
func (cc *CommentClient) List(ctx context.Context, filters repository.Filters) ([]entity.PostComment, error) {
	return cc.list(ctx, cc.client.endpoint(filters, "comments"), msgCannotFindComments)
}

func (cc *CommentClient) list(ctx context.Context, uri, notFoundMsg string) ([]entity.PostComment, error) {
	var comments []entity.PostComment
	err := cc.client.get(ctx, resourceComments, uri, &comments)
	if err != nil && !errors.Is(err, errEmptyBody) {
		return nil, translate(err, notFoundMsg)
	}
	if len(comments) == 0 {
		return nil, entity.NotFound(notFoundMsg, nil)
	}
	return comments, nil
}
