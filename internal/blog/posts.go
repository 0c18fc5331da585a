package blog

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/inklet/blog-backend/internal/models"
)

const maxTitleLength = 200

type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

func validatePost(title, content string) error {
	fields := map[string]string{}
	if title == "" {
		fields["title"] = "This field is required."
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		fields["title"] = "Ensure this field has no more than 200 characters."
	}
	if content == "" {
		fields["content"] = "This field is required."
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Create inserts a new post for authorID. The slug is computed inside the
// same transaction as the insert, so a concurrent creation with the same
// title fails at the unique index instead of slipping past the existence
// check.
func (s *PostService) Create(ctx context.Context, authorID int, title, content string) (*models.Post, error) {
	if err := validatePost(title, content); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       title,
		Content:     content,
		AuthorID:    authorID,
		ReadingTime: ReadingMinutes(content),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		generated, err := GenerateSlug(Slugify(title), func(candidate string) (bool, error) {
			var count int64
			if err := tx.Model(&models.Post{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
				return false, err
			}
			return count > 0, nil
		})
		if err != nil {
			return err
		}
		post.Slug = generated
		return tx.Create(post).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Author").First(post, post.ID).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Preload("Author").Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// RecordView bumps views_count by one directly in SQL, so concurrent detail
// fetches never lose increments. UpdateColumn leaves updated_at alone.
func (s *PostService) RecordView(ctx context.Context, post *models.Post) error {
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
	if err != nil {
		return err
	}
	post.ViewsCount++
	return nil
}

// Update applies a partial edit to the actor's own post. Only title and
// content are mutable; the slug keeps its creation-time value even when the
// title changes.
func (s *PostService) Update(ctx context.Context, actorID int, slug string, input models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actorID {
		return nil, ErrForbidden
	}

	title := post.Title
	content := post.Content
	if input.Title != nil {
		title = *input.Title
	}
	if input.Content != nil {
		content = *input.Content
	}
	if err := validatePost(title, content); err != nil {
		return nil, err
	}

	post.Title = title
	if input.Content != nil && content != post.Content {
		post.Content = content
		post.ReadingTime = ReadingMinutes(content)
	}

	if err := s.db.WithContext(ctx).Omit("Author").Save(post).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Preload("Author").First(post, post.ID).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the actor's own post; its comments go with it through the
// foreign-key cascade.
func (s *PostService) Delete(ctx context.Context, actorID int, slug string) error {
	post, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(post).Error
}

// escapeLike neutralizes the ILIKE metacharacters so the query matches as a
// literal substring.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Search returns all posts newest-first. A non-empty query narrows the
// result to posts whose title or content contains it, case-insensitively.
func (s *PostService) Search(ctx context.Context, query string) ([]models.Post, error) {
	tx := s.db.WithContext(ctx).Preload("Author").Order("created_at desc")
	if query != "" {
		pattern := "%" + escapeLike(query) + "%"
		tx = tx.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}

	var posts []models.Post
	if err := tx.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
