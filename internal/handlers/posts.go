package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inklet/blog-backend/internal/blog"
	"github.com/inklet/blog-backend/internal/models"
)

type PostHandler struct {
	posts *blog.PostService
}

func NewPostHandler(posts *blog.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// GetPosts lists all posts newest-first, optionally filtered by ?search=.
func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.posts.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	// If no posts, return empty array not null
	responses := make([]gin.H, 0, len(posts))
	for i := range posts {
		responses = append(responses, postJSON(&posts[i]))
	}

	c.JSON(http.StatusOK, responses)
}

// GetPost returns a single post by slug and records the view.
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.posts.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.posts.RecordView(c.Request.Context(), post); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, postJSON(post))
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Create(c.Request.Context(), userID, input.Title, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, postJSON(post))
}

// UpdatePost applies a partial edit (PROTECTED - requires ownership)
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Update(c.Request.Context(), userID, c.Param("slug"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, postJSON(post))
}

// DeletePost deletes a post and its comments (PROTECTED - requires ownership)
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.posts.Delete(c.Request.Context(), userID, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
