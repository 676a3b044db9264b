package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a reply posted under a forum.
type Comment struct {
	ID        string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	AuthorID  string        `gorm:"type:varchar(36);not null;index" json:"authorId"`
	Author    AuthorSummary `gorm:"foreignKey:AuthorID" json:"author"`
	ForumID   string        `gorm:"type:varchar(36);not null;index" json:"forumId"`
	Forum     *Forum        `gorm:"foreignKey:ForumID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// BeforeCreate assigns an id.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
