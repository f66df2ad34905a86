package post

import (
	"context"
	"net/http"

	"audition-api/internal/domain/entity"
	"audition-api/internal/handler/http/respond"
	"audition-api/internal/usecase/audition"
)

// GetHandler serves GET /posts/{id}. The id must consist of digits only.
type GetHandler struct{ Svc audition.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := entity.ValidateNumericID("postId", id); err != nil {
		respond.Error(w, r, err)
		return
	}

	post, err := h.Svc.GetPost(context.WithoutCancel(r.Context()), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if post == nil {
		// upstream returned an empty body
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(*post))
}
