package post

import (
	"context"
	"net/http"

	"audition-api/internal/domain/entity"
	"audition-api/internal/handler/http/respond"
	"audition-api/internal/usecase/audition"
)

// CommentsHandler serves GET /posts/{id}/comments. The id must be an integer
// greater than zero.
type CommentsHandler struct{ Svc audition.Service }

func (h CommentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	postID, err := entity.ParsePositiveInt("postId", r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	comments, err := h.Svc.ListCommentsForPost(context.WithoutCancel(r.Context()), postID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, commentDTOs(comments))
}
