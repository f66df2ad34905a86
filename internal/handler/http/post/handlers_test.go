package post_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"audition-api/internal/domain/entity"
	"audition-api/internal/handler/http/post"
	"audition-api/internal/handler/http/respond"
	"audition-api/internal/repository"
	"audition-api/internal/usecase/audition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* ───────── stubs ───────── */

type stubPosts struct {
	posts      []entity.Post
	post       *entity.Post
	err        error
	calls      int
	gotFilters repository.Filters
	gotID      string
	ctxErr     error
}

func (s *stubPosts) List(ctx context.Context, f repository.Filters) ([]entity.Post, error) {
	s.calls++
	s.gotFilters = f
	s.ctxErr = ctx.Err()
	return s.posts, s.err
}

func (s *stubPosts) Get(ctx context.Context, id string) (*entity.Post, error) {
	s.calls++
	s.gotID = id
	s.ctxErr = ctx.Err()
	return s.post, s.err
}

type stubComments struct {
	comments  []entity.PostComment
	err       error
	calls     int
	gotPostID int
}

func (s *stubComments) List(context.Context, repository.Filters) ([]entity.PostComment, error) {
	s.calls++
	return s.comments, s.err
}

func (s *stubComments) ListForPost(_ context.Context, postID int) ([]entity.PostComment, error) {
	s.calls++
	s.gotPostID = postID
	return s.comments, s.err
}

var (
	post1 = entity.Post{ID: 1, UserID: 1, Title: "Mock title1", Body: "Mock description body1"}
	post2 = entity.Post{ID: 2, UserID: 1, Title: "Mock title2", Body: "Mock description body2"}

	comment1 = entity.PostComment{ID: 1, PostID: 1, Name: "Mock title", Email: "mock@mock.com", Body: "Mock description body"}
	comment2 = entity.PostComment{ID: 2, PostID: 1, Name: "Mock title", Email: "mock@mock.com", Body: "Mock description body"}
)

func newMux(posts *stubPosts, comments *stubComments) *http.ServeMux {
	mux := http.NewServeMux()
	post.Register(mux, audition.Service{Posts: posts, Comments: comments})
	return mux
}

func serve(mux http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func decodeProblem(t *testing.T, rr *httptest.ResponseRecorder) respond.Problem {
	t.Helper()
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	var p respond.Problem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

/* ───────── GET /posts ───────── */

func TestListHandler_Success(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantFilters repository.Filters
	}{
		{name: "no query", target: "/posts", wantFilters: repository.Filters{}},
		{name: "user id", target: "/posts?userId=1", wantFilters: repository.Filters{"userId": "1"}},
		{name: "post id", target: "/posts?id=1", wantFilters: repository.Filters{"id": "1"}},
		{name: "both", target: "/posts?userId=1&id=2", wantFilters: repository.Filters{"userId": "1", "id": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := &stubPosts{posts: []entity.Post{post1, post2}}
			rr := serve(newMux(posts, nil), tt.target)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantFilters, posts.gotFilters)

			var got []post.DTO
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			require.Len(t, got, 2)
			assert.Equal(t, "Mock title1", got[0].Title)
			assert.Equal(t, "Mock title2", got[1].Title)
		})
	}
}

func TestListHandler_InvalidQuery(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantDetail string
	}{
		{name: "zero user id", target: "/posts?userId=0", wantDetail: "userId must be greater than zero"},
		{name: "negative id", target: "/posts?id=-4", wantDetail: "id must be greater than zero"},
		{name: "non numeric user id", target: "/posts?userId=abc", wantDetail: "userId must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := &stubPosts{}
			rr := serve(newMux(posts, nil), tt.target)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			p := decodeProblem(t, rr)
			assert.Equal(t, "Bad Request", p.Title)
			assert.Equal(t, tt.wantDetail, p.Detail)
			assert.Zero(t, posts.calls, "upstream must not be called")
		})
	}
}

func TestListHandler_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantTitle  string
	}{
		{name: "not found", err: entity.NotFound("No post available", nil), wantStatus: 404, wantTitle: "Resource Not Found"},
		{name: "server error", err: entity.SystemError("500 upstream", 500, nil), wantStatus: 500, wantTitle: "System Error"},
		{name: "bad gateway", err: entity.SystemError("connection refused", 502, nil), wantStatus: 502, wantTitle: "System Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(newMux(&stubPosts{err: tt.err}, nil), "/posts")

			require.Equal(t, tt.wantStatus, rr.Code)
			p := decodeProblem(t, rr)
			assert.Equal(t, tt.wantTitle, p.Title)
			assert.Equal(t, tt.wantStatus, p.Status)
			assert.Equal(t, "/posts", p.Instance)
		})
	}
}

func TestListHandler_InboundCancellationNotPropagated(t *testing.T) {
	posts := &stubPosts{posts: []entity.Post{post1}}
	mux := newMux(posts, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/posts", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NoError(t, posts.ctxErr)
}

/* ───────── GET /posts/{id} ───────── */

func TestGetHandler_Success(t *testing.T) {
	posts := &stubPosts{post: &post1}
	rr := serve(newMux(posts, nil), "/posts/1")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1", posts.gotID)

	var got post.DTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, post.DTO{ID: 1, UserID: 1, Title: "Mock title1", Body: "Mock description body1"}, got)
}

func TestGetHandler_NonNumericID(t *testing.T) {
	for _, id := range []string{"abc", "1a", "-1", "%2B1"} {
		t.Run(id, func(t *testing.T) {
			posts := &stubPosts{}
			rr := serve(newMux(posts, nil), "/posts/"+id)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "postId must be numeric", decodeProblem(t, rr).Detail)
			assert.Zero(t, posts.calls)
		})
	}
}

func TestGetHandler_EmptyUpstreamBody(t *testing.T) {
	rr := serve(newMux(&stubPosts{}, nil), "/posts/5")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestGetHandler_NotFound(t *testing.T) {
	posts := &stubPosts{err: entity.NotFound("Cannot find a Post with given id 999", nil)}
	rr := serve(newMux(posts, nil), "/posts/999")

	require.Equal(t, http.StatusNotFound, rr.Code)
	p := decodeProblem(t, rr)
	assert.Equal(t, "Resource Not Found", p.Title)
	assert.Equal(t, "Cannot find a Post with given id 999", p.Detail)
}

func TestGetHandler_LongNumericIDIsForwarded(t *testing.T) {
	id := "123456789012345678901234567890"
	posts := &stubPosts{err: entity.NotFound("Cannot find a Post with given id "+id, nil)}
	rr := serve(newMux(posts, nil), "/posts/"+id)

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, id, posts.gotID)
	assert.Equal(t, "Resource Not Found", decodeProblem(t, rr).Title)
}

/* ───────── GET /posts/{id}/comments ───────── */

func TestCommentsHandler_Success(t *testing.T) {
	comments := &stubComments{comments: []entity.PostComment{comment1, comment2}}
	rr := serve(newMux(nil, comments), "/posts/1/comments")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, comments.gotPostID)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, float64(1), got[0]["postId"])
	assert.Equal(t, "mock@mock.com", got[1]["email"])
}

func TestCommentsHandler_InvalidID(t *testing.T) {
	tests := []struct {
		id         string
		wantDetail string
	}{
		{id: "0", wantDetail: "postId must be greater than zero"},
		{id: "-3", wantDetail: "postId must be greater than zero"},
		{id: "abc", wantDetail: "postId must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			comments := &stubComments{}
			rr := serve(newMux(nil, comments), "/posts/"+tt.id+"/comments")

			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.wantDetail, decodeProblem(t, rr).Detail)
			assert.Zero(t, comments.calls)
		})
	}
}

func TestCommentsHandler_NotFound(t *testing.T) {
	comments := &stubComments{err: entity.NotFound("Cannot find comments with Post id 7", nil)}
	rr := serve(newMux(nil, comments), "/posts/7/comments")

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Cannot find comments with Post id 7", decodeProblem(t, rr).Detail)
}
