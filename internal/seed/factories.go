// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"forumhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// SeedOptions tunes how the factory builds entities.
type SeedOptions struct {
	// DryRun assigns synthetic ids and never writes to the database.
	DryRun bool
	// FastHash hashes the seed password at bcrypt's minimum cost.
	FastHash bool
	// MaxDays bounds how far back created_at timestamps are spread.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by Seed and tests.
type Factory struct {
	db       *gorm.DB
	opts     SeedOptions
	rnd      *rand.Rand
	seq      int
	password string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rnd: rand.New(rand.NewSource(seed))}
}

// passwordHash hashes DefaultPassword once per factory.
func (f *Factory) passwordHash() (string, error) {
	if f.password != "" {
		return f.password, nil
	}
	cost := bcrypt.DefaultCost
	if f.opts.FastHash {
		cost = bcrypt.MinCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return "", fmt.Errorf("hash seed password: %w", err)
	}
	f.password = string(hashed)
	return f.password, nil
}

// pastTime returns a random instant within the last MaxDays days.
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rnd.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rnd.Intn(24))*time.Hour +
		time.Duration(f.rnd.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

// CreateUser constructs and persists a sample user whose password is DefaultPassword.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}

	f.seq++
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID())
	user := &models.User{
		Email:    strings.ToLower(fmt.Sprintf("%s.%s%d@example.com", first, last, f.seq)),
		Password: hash,
		Name:     first + " " + last,
		Avatar:   &avatar,
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		user.ID = gofakeit.UUID()
		log.Printf("[dry-run] CreateUser: %s", user.Email)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Email, err)
	}
	return user, nil
}

// BuildForum constructs a forum authored by author but does not persist it.
func (f *Factory) BuildForum(author *models.User, overrides ...func(*models.Forum)) *models.Forum {
	tags := make([]string, 0, 3)
	for i := f.rnd.Intn(4); i > 0; i-- {
		tags = append(tags, strings.ToLower(gofakeit.Word()))
	}

	forum := &models.Forum{
		Title:       strings.TrimSuffix(gofakeit.Sentence(5), "."),
		Description: gofakeit.Paragraph(1, 3, 12, "\n"),
		Tags:        tags,
		AuthorID:    author.ID,
		CreatedAt:   f.pastTime(),
	}
	forum.UpdatedAt = forum.CreatedAt

	for _, override := range overrides {
		override(forum)
	}
	return forum
}

// CreateForum builds and persists a forum.
func (f *Factory) CreateForum(author *models.User, overrides ...func(*models.Forum)) (*models.Forum, error) {
	forum := f.BuildForum(author, overrides...)
	if f.opts.DryRun {
		forum.ID = gofakeit.UUID()
		log.Printf("[dry-run] CreateForum: %q", forum.Title)
		return forum, nil
	}
	if err := f.db.Omit(clause.Associations).Create(forum).Error; err != nil {
		return nil, fmt.Errorf("create forum: %w", err)
	}
	return forum, nil
}

// BuildComment constructs a comment on forum, dated after the forum was created.
func (f *Factory) BuildComment(author *models.User, forum *models.Forum, overrides ...func(*models.Comment)) *models.Comment {
	created := forum.CreatedAt
	if span := time.Since(created); span > 0 {
		created = created.Add(time.Duration(f.rnd.Int63n(int64(span))))
	}

	comment := &models.Comment{
		Content:   gofakeit.Sentence(gofakeit.Number(4, 20)),
		AuthorID:  author.ID,
		ForumID:   forum.ID,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, override := range overrides {
		override(comment)
	}
	return comment
}

// CreateCommentsBatch persists multiple comments in a single DB call.
func (f *Factory) CreateCommentsBatch(comments []*models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, c := range comments {
			c.ID = gofakeit.UUID()
		}
		log.Printf("[dry-run] CreateCommentsBatch: %d comments (no DB write)", len(comments))
		return nil
	}
	return f.db.Omit(clause.Associations).CreateInBatches(comments, 100).Error
}
