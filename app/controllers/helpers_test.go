package controllers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"simplefeed/app/flash"
	"simplefeed/app/middleware"
	"simplefeed/app/repositories/mock"
	"simplefeed/app/services"
	"simplefeed/app/validation"
	"simplefeed/app/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testApp struct {
	handler     http.Handler
	posts       *services.PostService
	comments    *services.CommentService
	postRepo    *mock.PostRepository
	commentRepo *mock.CommentRepository
	flash       *flash.Store
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	postRepo, commentRepo := mock.NewRepositories()
	opts := validation.DefaultOptions()
	postService := services.NewPostService(postRepo, commentRepo, opts)
	commentService := services.NewCommentService(commentRepo, postRepo, opts)

	flashes, err := flash.NewStore("test-secret")
	require.NoError(t, err)
	templates, err := views.Load()
	require.NoError(t, err)

	format := NewFormatter(templates, flashes, zaptest.NewLogger(t))
	pc := NewPostController(postService, format)
	cc := NewCommentController(commentService, format)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(format.NotFound)
	for _, prefix := range []string{"", "/api"} {
		r := router
		if prefix != "" {
			r = router.PathPrefix(prefix).Subrouter()
		}
		r.HandleFunc("/posts", pc.Index).Methods("GET")
		r.HandleFunc("/posts", pc.Create).Methods("POST")
		r.HandleFunc("/posts/new", pc.New).Methods("GET")
		r.HandleFunc("/posts/search/{keyword}", pc.Search).Methods("GET")
		r.HandleFunc("/posts/{id}", pc.Show).Methods("GET")
		r.HandleFunc("/posts/{id}/edit", pc.Edit).Methods("GET")
		r.HandleFunc("/posts/{id}", pc.Update).Methods("PUT", "PATCH")
		r.HandleFunc("/posts/{id}", pc.Delete).Methods("DELETE")
		r.HandleFunc("/posts/{post_id}/comments", cc.Index).Methods("GET")
		r.HandleFunc("/posts/{post_id}/comments", cc.Create).Methods("POST")
		r.HandleFunc("/posts/{post_id}/comments/{id}", cc.Delete).Methods("DELETE")
	}

	return &testApp{
		handler:     middleware.MethodOverride(middleware.FormatSuffix(router)),
		posts:       postService,
		comments:    commentService,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		flash:       flashes,
	}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *testApp) json(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return a.do(req)
}

func (a *testApp) form(method, target string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

// followFlash decodes the flash cookie set on w.
func (a *testApp) followFlash(t *testing.T, w *httptest.ResponseRecorder) (flash.Message, bool) {
	t.Helper()
	req := httptest.NewRequest("GET", w.Header().Get("Location"), nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return a.flash.Pop(httptest.NewRecorder(), req)
}

func (a *testApp) createPost(t *testing.T, title, name string) int {
	t.Helper()
	res, err := a.posts.Create(postInput(title, name))
	require.NoError(t, err)
	require.Equal(t, services.StatusCreated, res.Status)
	return res.Value.ID
}
