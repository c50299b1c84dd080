package controllers

import (
	"net/http"

	"dentalrcm/app/models"
	"dentalrcm/app/repositories"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// BlogPostController handles the blog post endpoints.
type BlogPostController struct {
	responder
	repo repositories.BlogPostRepository
}

// NewBlogPostController creates a new BlogPostController
func NewBlogPostController(repo repositories.BlogPostRepository, log logrus.FieldLogger) *BlogPostController {
	return &BlogPostController{
		responder: responder{
			log:      log,
			notFound: "blog post not found",
			conflict: "a blog post with this slug already exists",
		},
		repo: repo,
	}
}

// Index lists published posts.
func (bc *BlogPostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := bc.repo.GetBlogPosts(r.Context())
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	bc.sendJSON(w, http.StatusOK, posts)
}

// Show returns one post by slug, published or not.
func (bc *BlogPostController) Show(w http.ResponseWriter, r *http.Request) {
	post, err := bc.repo.GetBlogPostBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	bc.sendJSON(w, http.StatusOK, post)
}

// Create handles creating a new post
func (bc *BlogPostController) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	in, err := models.DecodeBlogPostInsert(body)
	if err != nil {
		bc.fail(w, r, err)
		return
	}

	post, err := bc.repo.InsertBlogPost(r.Context(), in)
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	bc.sendJSON(w, http.StatusCreated, post)
}

// Update replaces every insert field of an existing post.
func (bc *BlogPostController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		bc.sendError(w, http.StatusBadRequest, "invalid blog post id")
		return
	}

	body, err := readBody(r)
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	in, err := models.DecodeBlogPostInsert(body)
	if err != nil {
		bc.fail(w, r, err)
		return
	}

	post, err := bc.repo.UpdateBlogPost(r.Context(), id, in)
	if err != nil {
		bc.fail(w, r, err)
		return
	}
	bc.sendJSON(w, http.StatusOK, post)
}

// Delete removes a post. Deleting a missing post still answers 204.
func (bc *BlogPostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		bc.sendError(w, http.StatusBadRequest, "invalid blog post id")
		return
	}

	if err := bc.repo.DeleteBlogPost(r.Context(), id); err != nil {
		bc.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
