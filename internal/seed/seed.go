package seed

import (
	"fmt"
	"log"

	"forumhub/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumForums   int
	NumComments int
	ShouldClean bool
	Factory     SeedOptions
}

// Summary reports what a seeding run created.
type Summary struct {
	Users    []*models.User
	Forums   []*models.Forum
	Comments int
}

// Seed populates the database with users, forums spread across them and
// comments spread across the forums.
func Seed(db *gorm.DB, opts Options) (*Summary, error) {
	log.Printf("Seeding %d users, %d forums, %d comments", opts.NumUsers, opts.NumForums, opts.NumComments)

	if opts.ShouldClean && !opts.Factory.DryRun {
		if err := ClearAll(db); err != nil {
			return nil, err
		}
	}
	if opts.NumUsers <= 0 && (opts.NumForums > 0 || opts.NumComments > 0) {
		return nil, fmt.Errorf("forums and comments need at least one user")
	}
	if opts.NumForums <= 0 && opts.NumComments > 0 {
		return nil, fmt.Errorf("comments need at least one forum")
	}

	f := NewFactory(db, opts.Factory)
	summary := &Summary{}

	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create users: %w", err)
		}
		summary.Users = append(summary.Users, user)
	}
	log.Printf("✓ %d users created", len(summary.Users))

	for i := 0; i < opts.NumForums; i++ {
		author := summary.Users[f.rnd.Intn(len(summary.Users))]
		forum, err := f.CreateForum(author)
		if err != nil {
			return nil, fmt.Errorf("failed to create forums: %w", err)
		}
		summary.Forums = append(summary.Forums, forum)
	}
	log.Printf("✓ %d forums created", len(summary.Forums))

	comments := make([]*models.Comment, 0, opts.NumComments)
	for i := 0; i < opts.NumComments; i++ {
		author := summary.Users[f.rnd.Intn(len(summary.Users))]
		forum := summary.Forums[f.rnd.Intn(len(summary.Forums))]
		comments = append(comments, f.BuildComment(author, forum))
	}
	if err := f.CreateCommentsBatch(comments); err != nil {
		return nil, fmt.Errorf("failed to create comments: %w", err)
	}
	summary.Comments = len(comments)
	log.Printf("✓ %d comments created", summary.Comments)

	return summary, nil
}

// ClearAll deletes every comment, forum and user.
func ClearAll(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	return db.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&models.Comment{}, &models.Forum{}, &models.User{}} {
			if err := all.Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}
