package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inklet/blog-backend/internal/blog"
	"github.com/inklet/blog-backend/internal/models"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Post    *PostHandler
	Comment *CommentHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB) *Handler {
	posts := blog.NewPostService(db)
	comments := blog.NewCommentService(db, posts)

	return &Handler{
		Auth:    NewAuthHandler(db),
		Post:    NewPostHandler(posts),
		Comment: NewCommentHandler(comments),
	}
}

func currentUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := raw.(int)
	return id, ok
}

// respondError translates domain errors into the status codes the API
// promises: 400 for validation, 403 for non-owners, 404 for unknown slugs.
func respondError(c *gin.Context, err error) {
	var verr *blog.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.Is(err, blog.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
	case errors.Is(err, blog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func postJSON(post *models.Post) gin.H {
	return gin.H{
		"id":              post.ID,
		"title":           post.Title,
		"slug":            post.Slug,
		"content":         post.Content,
		"author":          post.AuthorID,
		"author_username": post.Author.Username,
		"created":         post.CreatedAt,
		"updated":         post.UpdatedAt,
		"views_count":     post.ViewsCount,
		"reading_time":    post.ReadingTime,
	}
}

func commentJSON(comment *models.Comment) gin.H {
	return gin.H{
		"id":              comment.ID,
		"post":            comment.PostID,
		"author":          comment.AuthorID,
		"author_username": comment.Author.Username,
		"content":         comment.Content,
		"created_at":      comment.CreatedAt,
	}
}
