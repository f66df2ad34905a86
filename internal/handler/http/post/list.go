package post

import (
	"context"
	"net/http"

	"audition-api/internal/domain/entity"
	"audition-api/internal/handler/http/respond"
	"audition-api/internal/usecase/audition"
)

// ListHandler serves GET /posts. The optional userId and id query parameters
// must be positive integers.
type ListHandler struct{ Svc audition.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var filter audition.PostFilter
	var err error

	if filter.UserID, err = optionalPositiveInt(r, "userId"); err != nil {
		respond.Error(w, r, err)
		return
	}
	if filter.ID, err = optionalPositiveInt(r, "id"); err != nil {
		respond.Error(w, r, err)
		return
	}

	posts, err := h.Svc.ListPosts(context.WithoutCancel(r.Context()), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTOs(posts))
}

func optionalPositiveInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := entity.ParsePositiveInt(name, raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
