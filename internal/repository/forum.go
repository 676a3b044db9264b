package repository

import (
	"context"

	"forumhub/internal/cache"
	"forumhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const forumWithCount = "forums.*, (SELECT COUNT(*) FROM comments WHERE comments.forum_id = forums.id) AS comments_count"

// ForumRepository defines persistence operations for forums.
type ForumRepository interface {
	Create(ctx context.Context, forum *models.Forum) error
	GetByID(ctx context.Context, id string) (*models.Forum, error)
	GetDetail(ctx context.Context, id string) (*models.ForumDetail, error)
	List(ctx context.Context) ([]models.Forum, error)
	Update(ctx context.Context, forum *models.Forum) error
	Delete(ctx context.Context, id string) error
}

type forumRepository struct {
	db    *gorm.DB
	cache *cache.Store
}

// NewForumRepository returns a new ForumRepository implementation.
func NewForumRepository(db *gorm.DB, store *cache.Store) ForumRepository {
	return &forumRepository{db: db, cache: store}
}

func (r *forumRepository) Create(ctx context.Context, forum *models.Forum) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(forum).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.cache.InvalidateForumList(ctx)
	return nil
}

// GetByID loads a forum with its author and comment count, bypassing the cache.
func (r *forumRepository) GetByID(ctx context.Context, id string) (*models.Forum, error) {
	var forum models.Forum
	err := r.db.WithContext(ctx).
		Select(forumWithCount).
		Preload("Author").
		Where("forums.id = ?", id).
		First(&forum).Error
	if err != nil {
		return nil, translateError(err, "Forum")
	}
	return &forum, nil
}

// GetDetail loads a forum with its comments, newest first.
func (r *forumRepository) GetDetail(ctx context.Context, id string) (*models.ForumDetail, error) {
	var detail models.ForumDetail
	err := r.cache.Aside(ctx, cache.ForumKey(id), &detail, cache.ForumTTL, func() error {
		forum, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}

		comments := make([]models.Comment, 0)
		if err := r.db.WithContext(ctx).
			Preload("Author").
			Where("forum_id = ?", id).
			Order("created_at DESC, id DESC").
			Find(&comments).Error; err != nil {
			return models.NewInternalError(err)
		}

		detail = models.ForumDetail{Forum: *forum, Comments: comments}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns every forum, newest first.
func (r *forumRepository) List(ctx context.Context) ([]models.Forum, error) {
	forums := make([]models.Forum, 0)
	err := r.cache.Aside(ctx, cache.ForumListKey, &forums, cache.ForumListTTL, func() error {
		if err := r.db.WithContext(ctx).
			Select(forumWithCount).
			Preload("Author").
			Order("forums.created_at DESC, forums.id DESC").
			Find(&forums).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return forums, nil
}

// Update writes the mutable fields of forum.
func (r *forumRepository) Update(ctx context.Context, forum *models.Forum) error {
	err := r.db.WithContext(ctx).
		Model(forum).
		Omit(clause.Associations).
		Select("title", "description", "tags", "updated_at").
		Updates(forum).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	r.cache.InvalidateForum(ctx, forum.ID)
	return nil
}

// Delete removes a forum and its comments in one transaction.
func (r *forumRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("forum_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Forum{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return translateError(err, "Forum")
	}
	r.cache.InvalidateForum(ctx, id)
	return nil
}
