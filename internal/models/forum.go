package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Forum is a discussion thread owned by its author.
type Forum struct {
	ID          string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string        `gorm:"type:varchar(300);not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Tags        []string      `gorm:"type:text;serializer:json;not null" json:"tags"`
	AuthorID    string        `gorm:"type:varchar(36);not null;index" json:"authorId"`
	Author      AuthorSummary `gorm:"foreignKey:AuthorID" json:"author"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int        `gorm:"->;-:migration" json:"-"`
	Count         ForumCount `gorm:"-" json:"_count"`
	CreatedAt     time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ForumCount carries aggregate counts rendered under "_count".
type ForumCount struct {
	Comments int `json:"comments"`
}

// ForumDetail is a forum together with its comments, newest first.
type ForumDetail struct {
	Forum
	Comments []Comment `json:"comments"`
}

// BeforeCreate assigns an id.
func (f *Forum) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return f.BeforeSave(tx)
}

// BeforeSave keeps tags from being stored as JSON null.
func (f *Forum) BeforeSave(_ *gorm.DB) error {
	if f.Tags == nil {
		f.Tags = []string{}
	}
	return nil
}

// AfterFind fills derived fields.
func (f *Forum) AfterFind(_ *gorm.DB) error {
	if f.Tags == nil {
		f.Tags = []string{}
	}
	f.Count.Comments = f.CommentsCount
	return nil
}
