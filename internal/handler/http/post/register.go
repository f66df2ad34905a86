package post

import (
	"net/http"

	"audition-api/internal/usecase/audition"
)

// Register registers the post handlers with the given mux.
func Register(mux *http.ServeMux, svc audition.Service) {
	mux.Handle("GET /posts", ListHandler{svc})
	mux.Handle("GET /posts/{id}", GetHandler{svc})
	mux.Handle("GET /posts/{id}/comments", CommentsHandler{svc})
}
