package comment

import (
	"context"
	"net/http"

	"audition-api/internal/domain/entity"
	"audition-api/internal/handler/http/respond"
	"audition-api/internal/usecase/audition"
)

// ListHandler serves GET /comments. The optional postId query parameter must be
// an integer; its sign is not checked.
type ListHandler struct{ Svc audition.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var filter audition.CommentFilter
	if raw := r.URL.Query().Get("postId"); raw != "" {
		postID, err := entity.ParseInt("postId", raw)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		filter.PostID = &postID
	}

	comments, err := h.Svc.ListComments(context.WithoutCancel(r.Context()), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToDTOs(comments))
}
