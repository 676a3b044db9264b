// Package validation checks and normalizes request payloads before they reach the services.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"forumhub/internal/models"

	ozzo "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	minPasswordLength    = 6
	maxPasswordLength    = 72 // bcrypt ignores bytes past 72
	maxNameLength        = 100
	maxAvatarLength      = 2048
	maxTitleLength       = 300
	maxDescriptionLength = 50000
	maxTags              = 20
	maxTagLength         = 50
	maxCommentLength     = 10000
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar"`
}

// Normalize trims free-text fields and canonicalizes the email.
func (r *RegisterRequest) Normalize() {
	r.Email = models.NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	if r.Avatar != nil {
		trimmed := strings.TrimSpace(*r.Avatar)
		if trimmed == "" {
			r.Avatar = nil
		} else {
			r.Avatar = &trimmed
		}
	}
}

func (r RegisterRequest) Validate() error {
	return ozzo.ValidateStruct(&r,
		ozzo.Field(&r.Email, ozzo.Required, is.Email),
		ozzo.Field(&r.Password, ozzo.Required, ozzo.Length(minPasswordLength, maxPasswordLength)),
		ozzo.Field(&r.Name, ozzo.RuneLength(0, maxNameLength)),
		ozzo.Field(&r.Avatar, ozzo.RuneLength(0, maxAvatarLength)),
	)
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = models.NormalizeEmail(r.Email)
}

func (r LoginRequest) Validate() error {
	return ozzo.ValidateStruct(&r,
		ozzo.Field(&r.Email, ozzo.Required, is.Email),
		ozzo.Field(&r.Password, ozzo.Required, ozzo.Length(minPasswordLength, maxPasswordLength)),
	)
}

// ForumRequest is the body of POST and PUT /api/forums.
// A nil Tags means the field was absent.
type ForumRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        *[]string `json:"tags"`
}

func (r *ForumRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	if r.Tags != nil {
		tags := make([]string, len(*r.Tags))
		for i, tag := range *r.Tags {
			tags[i] = strings.TrimSpace(tag)
		}
		r.Tags = &tags
	}
}

func (r ForumRequest) Validate() error {
	return ozzo.ValidateStruct(&r,
		ozzo.Field(&r.Title, ozzo.Required, ozzo.RuneLength(1, maxTitleLength)),
		ozzo.Field(&r.Description, ozzo.Required, ozzo.RuneLength(1, maxDescriptionLength)),
		ozzo.Field(&r.Tags, ozzo.By(validTags)),
	)
}

// TagList returns the tags, or an empty list when absent.
func (r ForumRequest) TagList() []string {
	if r.Tags == nil {
		return []string{}
	}
	return *r.Tags
}

func validTags(value interface{}) error {
	tags, ok := value.(*[]string)
	if !ok || tags == nil {
		return nil
	}
	if len(*tags) > maxTags {
		return fmt.Errorf("must contain at most %d tags", maxTags)
	}
	for i, tag := range *tags {
		if tag == "" {
			return fmt.Errorf("tag %d cannot be blank", i)
		}
		if len([]rune(tag)) > maxTagLength {
			return fmt.Errorf("tag %d must be at most %d characters", i, maxTagLength)
		}
	}
	return nil
}

// CommentRequest is the body of POST /api/forums/:forumId/comments.
type CommentRequest struct {
	Content string `json:"content"`
}

func (r *CommentRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

func (r CommentRequest) Validate() error {
	return ozzo.ValidateStruct(&r,
		ozzo.Field(&r.Content, ozzo.Required, ozzo.RuneLength(1, maxCommentLength)),
	)
}

// Request is a payload that can be normalized and validated.
type Request interface {
	Normalize()
	Validate() error
}

// Check normalizes r and returns a ValidationError listing every invalid field, or nil.
func Check(r Request) error {
	r.Normalize()
	err := r.Validate()
	if err == nil {
		return nil
	}

	var errs ozzo.Errors
	if !errors.As(err, &errs) {
		return models.NewValidationError(err.Error())
	}

	fields := make([]models.FieldError, 0, len(errs))
	for field, fieldErr := range errs {
		fields = append(fields, models.FieldError{Field: field, Message: fieldErr.Error()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })

	return models.NewValidationError("Validation failed", fields...)
}
