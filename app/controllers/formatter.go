package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"simplefeed/app/flash"
	"simplefeed/app/models"
	"simplefeed/app/services"
	"simplefeed/app/views"

	"go.uber.org/zap"
)

const (
	noticeCreated = "Post was successfully created."
	noticeUpdated = "Post was successfully updated."
)

// Formatter turns service results into HTTP responses for the negotiated
// mode. Handlers never write responses themselves.
type Formatter struct {
	templates views.Templates
	flash     *flash.Store
	logger    *zap.Logger
}

// NewFormatter creates a Formatter.
func NewFormatter(templates views.Templates, flashes *flash.Store, logger *zap.Logger) *Formatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Formatter{templates: templates, flash: flashes, logger: logger}
}

func postPath(id int) string {
	return fmt.Sprintf("/posts/%d", id)
}

// resourcePath keeps generated locations under /api for API requests.
func resourcePath(r *http.Request, path string) string {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return "/api" + path
	}
	return path
}

func (f *Formatter) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		f.logger.Error("failed to encode response", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (f *Formatter) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if Negotiate(r) == DataMode {
		f.sendJSON(w, status, map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}

func (f *Formatter) redirect(w http.ResponseWriter, r *http.Request, to string, msg *flash.Message) {
	if msg != nil {
		if err := f.flash.Set(w, *msg); err != nil {
			f.logger.Warn("failed to set flash", zap.Error(err))
		}
	}
	http.Redirect(w, r, to, http.StatusFound)
}

func (f *Formatter) render(w http.ResponseWriter, r *http.Request, status int, name string, page *views.Page) {
	if msg, ok := f.flash.Pop(w, r); ok {
		page.Flash = &msg
	}
	var buf bytes.Buffer
	if err := f.templates.Render(&buf, name, page); err != nil {
		f.Fail(w, r, fmt.Errorf("template %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// Fail answers an unexpected error with 500 and logs it.
func (f *Formatter) Fail(w http.ResponseWriter, r *http.Request, err error) {
	f.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	f.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
}

// BadInput answers an undecodable request body with 400. The decoder
// detail is logged, not sent.
func (f *Formatter) BadInput(w http.ResponseWriter, r *http.Request, err error) {
	f.logger.Info("bad request body",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	f.sendError(w, r, ErrBadInput.Error(), http.StatusBadRequest)
}

// NotFound is the handler for unknown routes.
func (f *Formatter) NotFound(w http.ResponseWriter, r *http.Request) {
	f.sendError(w, r, "Not found", http.StatusNotFound)
}

// MethodNotAllowed is the handler for known paths hit with another method.
func (f *Formatter) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	f.sendError(w, r, "Method not allowed", http.StatusMethodNotAllowed)
}

// postNotFound sends the browser back to the listing.
func (f *Formatter) postNotFound(w http.ResponseWriter, r *http.Request) {
	if Negotiate(r) == DataMode {
		f.sendJSON(w, http.StatusNotFound, map[string]string{"error": services.MsgPostNotFound})
		return
	}
	f.redirect(w, r, "/posts", nil)
}

// PostAction names the post operation a result came from.
type PostAction int

const (
	ShowPost PostAction = iota
	NewPost
	EditPost
	CreatePost
	UpdatePost
	DeletePost
)

// Posts formats a listing. keyword selects the search page.
func (f *Formatter) Posts(w http.ResponseWriter, r *http.Request, page string, keyword string, res services.Result[[]*models.Post]) {
	if Negotiate(r) == DataMode {
		f.sendJSON(w, http.StatusOK, res.Value)
		return
	}
	f.render(w, r, http.StatusOK, page, &views.Page{Title: "Posts", Posts: res.Value, Keyword: keyword})
}

func formPage(action PostAction, post *models.Post, errs []string) *views.Page {
	page := &views.Page{Post: post, Errors: errs, Title: "New post", Action: "/posts"}
	if action == EditPost || action == UpdatePost {
		page.Title = "Editing post"
		page.Action = postPath(post.ID)
		page.Method = "patch"
	}
	return page
}

// Post formats the result of a single-post operation.
func (f *Formatter) Post(w http.ResponseWriter, r *http.Request, action PostAction, res services.Result[*models.Post]) {
	data := Negotiate(r) == DataMode

	switch res.Status {
	case services.StatusNotFound:
		f.postNotFound(w, r)

	case services.StatusOK:
		if data {
			f.sendJSON(w, http.StatusOK, res.Value)
			return
		}
		switch action {
		case NewPost:
			f.render(w, r, http.StatusOK, "new", formPage(action, res.Value, nil))
		case EditPost:
			f.render(w, r, http.StatusOK, "edit", formPage(action, res.Value, nil))
		default:
			f.render(w, r, http.StatusOK, "show", &views.Page{Title: res.Value.Title, Post: res.Value, Comments: res.Value.Comments})
		}

	case services.StatusCreated:
		location := postPath(res.Value.ID)
		if data {
			w.Header().Set("Location", resourcePath(r, location))
			f.sendJSON(w, http.StatusCreated, res.Value)
			return
		}
		f.redirect(w, r, location, &flash.Message{Notice: noticeCreated})

	case services.StatusUpdated:
		if data {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		f.redirect(w, r, postPath(res.Value.ID), &flash.Message{Notice: noticeUpdated})

	case services.StatusRejected:
		if data {
			f.sendJSON(w, http.StatusUnprocessableEntity, res.Errors)
			return
		}
		name := "new"
		if action == UpdatePost {
			name = "edit"
		}
		f.render(w, r, http.StatusOK, name, formPage(action, res.Value, res.Errors.FullMessages()))

	case services.StatusDeleted:
		if data {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		f.redirect(w, r, "/posts", nil)

	case services.StatusDeleteFailed:
		f.logger.Error("post delete failed", zap.Int("post_id", res.Value.ID), zap.Error(res.Cause))
		if data {
			f.sendJSON(w, http.StatusInternalServerError, map[string]string{"error": res.Message})
			return
		}
		f.redirect(w, r, "/posts", &flash.Message{Errors: []string{res.Message}})

	default:
		f.Fail(w, r, fmt.Errorf("unexpected post result %s", res.Status))
	}
}

// Comments formats a comment listing. Pages show comments on the post.
func (f *Formatter) Comments(w http.ResponseWriter, r *http.Request, postID int, res services.Result[[]*models.Comment]) {
	switch {
	case res.Status == services.StatusNotFound:
		f.postNotFound(w, r)
	case Negotiate(r) == DataMode:
		f.sendJSON(w, http.StatusOK, res.Value)
	default:
		f.redirect(w, r, postPath(postID), nil)
	}
}

// Comment formats the result of a comment create or delete. Pages always
// land on the parent post.
func (f *Formatter) Comment(w http.ResponseWriter, r *http.Request, postID int, res services.Result[*models.Comment]) {
	data := Negotiate(r) == DataMode
	back := postPath(postID)

	switch res.Status {
	case services.StatusNotFound:
		if res.Message != services.MsgCommentNotFound {
			f.postNotFound(w, r)
			return
		}
		if data {
			f.sendJSON(w, http.StatusNotFound, map[string]string{"error": res.Message})
			return
		}
		f.redirect(w, r, back, nil)

	case services.StatusCreated:
		if data {
			w.Header().Set("Location", resourcePath(r, back))
			f.sendJSON(w, http.StatusCreated, res.Value)
			return
		}
		f.redirect(w, r, back, nil)

	case services.StatusRejected:
		if data {
			f.sendJSON(w, http.StatusUnprocessableEntity, res.Errors)
			return
		}
		f.redirect(w, r, back, &flash.Message{Errors: res.Errors.FullMessages()})

	case services.StatusDeleted:
		if data {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		f.redirect(w, r, back, nil)

	case services.StatusDeleteFailed:
		f.logger.Error("comment delete failed",
			zap.Int("post_id", postID),
			zap.Int("comment_id", res.Value.ID),
			zap.Error(res.Cause),
		)
		if data {
			f.sendJSON(w, http.StatusInternalServerError, map[string]string{"error": res.Message})
			return
		}
		f.redirect(w, r, back, &flash.Message{Errors: []string{res.Message}})

	default:
		f.Fail(w, r, fmt.Errorf("unexpected comment result %s", res.Status))
	}
}
