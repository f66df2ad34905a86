package comment

import (
	"net/http"

	"audition-api/internal/usecase/audition"
)

// Register registers the comment handlers with the given mux.
func Register(mux *http.ServeMux, svc audition.Service) {
	mux.Handle("GET /comments", ListHandler{svc})
}
