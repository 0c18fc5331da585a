package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inklet/blog-backend/internal/blog"
	"github.com/inklet/blog-backend/internal/models"
)

type CommentHandler struct {
	comments *blog.CommentService
}

func NewCommentHandler(comments *blog.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// GetComments returns a post's comments oldest-first.
func (h *CommentHandler) GetComments(c *gin.Context) {
	comments, err := h.comments.ListForPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]gin.H, 0, len(comments))
	for i := range comments {
		responses = append(responses, commentJSON(&comments[i]))
	}

	c.JSON(http.StatusOK, responses)
}

// CreateComment adds a comment to a post (PROTECTED - requires authentication)
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), userID, c.Param("slug"), input.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, commentJSON(comment))
}
