package repository

import (
	"context"

	"forumhub/internal/cache"
	"forumhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByForum(ctx context.Context, forumID string) ([]models.Comment, error)
	Delete(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db    *gorm.DB
	cache *cache.Store
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB, store *cache.Store) CommentRepository {
	return &commentRepository{db: db, cache: store}
}

// Create inserts the comment and loads its author. A forum deleted after
// the caller checked it fails the foreign key and reads as NotFound.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(comment).Error; err != nil {
		if isForeignKeyViolation(err) {
			return models.NewNotFoundError("Forum")
		}
		return models.NewInternalError(err)
	}
	r.cache.InvalidateForum(ctx, comment.ForumID)

	if err := db.Where("id = ?", comment.AuthorID).First(&comment.Author).Error; err != nil {
		return translateError(err, "User")
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, translateError(err, "Comment")
	}
	return &comment, nil
}

func (r *commentRepository) ListByForum(ctx context.Context, forumID string) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("forum_id = ?", forumID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	res := r.db.WithContext(ctx).Where("id = ?", comment.ID).Delete(&models.Comment{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment")
	}
	r.cache.InvalidateForum(ctx, comment.ForumID)
	return nil
}
