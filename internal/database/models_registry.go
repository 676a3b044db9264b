package database

import "forumhub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters: forums and comments reference users.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Forum{},
		&models.Comment{},
	}
}
