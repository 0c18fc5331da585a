package blog

import (
	"context"

	"gorm.io/gorm"

	"github.com/inklet/blog-backend/internal/models"
)

type CommentService struct {
	db    *gorm.DB
	posts *PostService
}

func NewCommentService(db *gorm.DB, posts *PostService) *CommentService {
	return &CommentService{db: db, posts: posts}
}

// Create attaches a comment to the post behind postSlug.
func (s *CommentService) Create(ctx context.Context, authorID int, postSlug, content string) (*models.Comment, error) {
	if content == "" {
		return nil, &ValidationError{Fields: map[string]string{"content": "This field is required."}}
	}

	post, err := s.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Author").First(comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// ListForPost returns the post's comments in conversation order, oldest
// first.
func (s *CommentService) ListForPost(ctx context.Context, postSlug string) ([]models.Comment, error) {
	post, err := s.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	err = s.db.WithContext(ctx).
		Where("post_id = ?", post.ID).
		Preload("Author").
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
