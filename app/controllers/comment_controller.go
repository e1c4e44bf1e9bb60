package controllers

import (
	"net/http"

	"simplefeed/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	commentService *services.CommentService
	format         *Formatter
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, format *Formatter) *CommentController {
	return &CommentController{commentService: commentService, format: format}
}

// Index lists the comments of a post
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "post_id")
	if !ok {
		cc.format.postNotFound(w, r)
		return
	}

	res, err := cc.commentService.List(postID)
	if err != nil {
		cc.format.Fail(w, r, err)
		return
	}
	cc.format.Comments(w, r, postID, res)
}

// Create handles creating a new comment on a post
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "post_id")
	if !ok {
		cc.format.postNotFound(w, r)
		return
	}
	in, err := decodeCommentInput(r)
	if err != nil {
		cc.format.BadInput(w, r, err)
		return
	}

	res, err := cc.commentService.Create(postID, in)
	if err != nil {
		cc.format.Fail(w, r, err)
		return
	}
	cc.format.Comment(w, r, postID, res)
}

// Delete handles deleting a comment of a post. A malformed comment id is
// looked up as id 0, so it ends up as a missing comment on the post.
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "post_id")
	if !ok {
		cc.format.postNotFound(w, r)
		return
	}
	id, _ := pathID(r, "id")

	res, err := cc.commentService.Delete(postID, id)
	if err != nil {
		cc.format.Fail(w, r, err)
		return
	}
	cc.format.Comment(w, r, postID, res)
}
