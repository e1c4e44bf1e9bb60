package controllers

import (
	"net/http"

	"simplefeed/app/services"

	"github.com/gorilla/mux"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
	format      *Formatter
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, format *Formatter) *PostController {
	return &PostController{postService: postService, format: format}
}

// Index handles listing all posts, filtered by the keyword query parameter
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	res, err := pc.postService.List(keyword)
	if err != nil {
		pc.format.Fail(w, r, err)
		return
	}
	pc.format.Posts(w, r, "index", keyword, res)
}

// Search handles listing the posts whose title contains the path keyword
func (pc *PostController) Search(w http.ResponseWriter, r *http.Request) {
	keyword := mux.Vars(r)["keyword"]
	res, err := pc.postService.List(keyword)
	if err != nil {
		pc.format.Fail(w, r, err)
		return
	}
	pc.format.Posts(w, r, "search", keyword, res)
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	pc.format.Post(w, r, NewPost, pc.postService.New())
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	pc.load(w, r, ShowPost)
}

// Edit displays the form for editing a post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	pc.load(w, r, EditPost)
}

func (pc *PostController) load(w http.ResponseWriter, r *http.Request, action PostAction) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.format.postNotFound(w, r)
		return
	}
	res, err := pc.postService.Get(id)
	if err != nil {
		pc.format.Fail(w, r, err)
		return
	}
	pc.format.Post(w, r, action, res)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodePostInput(r)
	if err != nil {
		pc.format.BadInput(w, r, err)
		return
	}

	res, err := pc.postService.Create(in)
	if err != nil {
		pc.format.Fail(w, r, err)
		return
	}
	pc.format.Post(w, r, CreatePost, res)
}

// Update handles partial updates of an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.format.postNotFound(w, r)
		return
	}
	in, err := decodePostInput(r)
	if err != nil {
		pc.format.BadInput(w, r, err)
		return
	}

	res, err := pc.postService.Update(id, in)
	if err != nil {
		pc.format.Fail(w, r, err)
		return
	}
	pc.format.Post(w, r, UpdatePost, res)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		pc.format.postNotFound(w, r)
		return
	}

	res, err := pc.postService.Delete(id)
	if err != nil {
		pc.format.Fail(w, r, err)
		return
	}
	pc.format.Post(w, r, DeletePost, res)
}
