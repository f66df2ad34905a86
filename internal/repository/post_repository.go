// Package repository declares the read interfaces the use case layer depends on.
// Implementations live under internal/infra and talk to the upstream API.
package repository

import (
	"context"

	"audition-api/internal/domain/entity"
)

// Filters is a set of query-string filters forwarded verbatim to the upstream API.
type Filters map[string]string

type PostRepository interface {
	List(ctx context.Context, filters Filters) ([]entity.Post, error)
	Get(ctx context.Context, id string) (*entity.Post, error)
}
