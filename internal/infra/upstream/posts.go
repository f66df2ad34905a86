package upstream

import (
	"context"
	"errors"

	"audition-api/internal/domain/entity"
	"audition-api/internal/repository"
)

const msgNoPostAvailable = "No post available"

// PostClient implements repository.PostRepository against /posts.
type PostClient struct {
	client *Client
}

var _ repository.PostRepository = (*PostClient)(nil)

// NewPostClient creates a PostClient that shares c's transport.
func NewPostClient(c *Client) *PostClient {
	return &PostClient{client: c}
}

// List returns the posts matching filters, in upstream order.
// A 404, a null body or an empty array all yield a "Resource Not Found" error.
func (p *PostClient) List(ctx context.Context, filters repository.Filters) ([]entity.Post, error) {
	var posts []entity.Post
	err := p.client.get(ctx, resourcePosts, p.client.endpoint(filters, "posts"), &posts)
	if err != nil && !errors.Is(err, errEmptyBody) {
		return nil, translate(err, msgNoPostAvailable)
	}
	if len(posts) == 0 {
		return nil, entity.NotFound(msgNoPostAvailable, nil)
	}
	return posts, nil
}

// Get returns the post with the given id.
//
// Unlike List, a successful response without a payload is not treated as not-found:
// the result is (nil, nil).
func (p *PostClient) Get(ctx context.Context, id string) (*entity.Post, error) {
	var post *entity.Post
	err := p.client.get(ctx, resourcePosts, p.client.endpoint(nil, "posts", id), &post)
	if err != nil && !errors.Is(err, errEmptyBody) {
		return nil, translate(err, "Cannot find a Post with given id "+id)
	}
	return post, nil
}
