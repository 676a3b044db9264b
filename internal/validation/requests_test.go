package validation

import (
	"strings"
	"testing"

	"forumhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	out := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		assert.NotEmpty(t, f.Message)
		out = append(out, f.Field)
	}
	return out
}

func strPtr(s string) *string { return &s }

func tagsPtr(tags ...string) *[]string { return &tags }

func TestRegisterRequest(t *testing.T) {
	tests := []struct {
		name   string
		req    RegisterRequest
		fields []string
	}{
		{"valid", RegisterRequest{Email: "a@x.com", Password: "secret1"}, nil},
		{"valid with profile", RegisterRequest{Email: "a@x.com", Password: "secret1", Name: "Alice", Avatar: strPtr("https://x.com/a.png")}, nil},
		{"missing everything", RegisterRequest{}, []string{"email", "password"}},
		{"bad email", RegisterRequest{Email: "not-an-email", Password: "secret1"}, []string{"email"}},
		{"short password", RegisterRequest{Email: "a@x.com", Password: "12345"}, []string{"password"}},
		{"long password", RegisterRequest{Email: "a@x.com", Password: strings.Repeat("p", 73)}, []string{"password"}},
		{"long name", RegisterRequest{Email: "a@x.com", Password: "secret1", Name: strings.Repeat("n", 101)}, []string{"name"}},
		{"long avatar", RegisterRequest{Email: "a@x.com", Password: "secret1", Avatar: strPtr(strings.Repeat("a", 2049))}, []string{"avatar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			err := Check(&req)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.fields, fieldsOf(t, err))
		})
	}
}

func TestRegisterRequestNormalizes(t *testing.T) {
	req := RegisterRequest{Email: "  Alice@Example.COM ", Password: "secret1", Name: "  Alice ", Avatar: strPtr("   ")}
	require.NoError(t, Check(&req))

	assert.Equal(t, "alice@example.com", req.Email)
	assert.Equal(t, "Alice", req.Name)
	assert.Nil(t, req.Avatar)
}

func TestLoginRequest(t *testing.T) {
	ok := LoginRequest{Email: "A@x.com", Password: "secret1"}
	require.NoError(t, Check(&ok))
	assert.Equal(t, "a@x.com", ok.Email)

	bad := LoginRequest{Email: "nope", Password: "1"}
	assert.Equal(t, []string{"email", "password"}, fieldsOf(t, Check(&bad)))
}

func TestForumRequest(t *testing.T) {
	tooMany := make([]string, 21)
	for i := range tooMany {
		tooMany[i] = "t"
	}

	tests := []struct {
		name   string
		req    ForumRequest
		fields []string
	}{
		{"valid without tags", ForumRequest{Title: "Hello", Description: "World"}, nil},
		{"valid with tags", ForumRequest{Title: "Hello", Description: "World", Tags: tagsPtr("go", "web")}, nil},
		{"empty tag list", ForumRequest{Title: "Hello", Description: "World", Tags: tagsPtr()}, nil},
		{"blank title", ForumRequest{Title: "   ", Description: "World"}, []string{"title"}},
		{"missing description", ForumRequest{Title: "Hello"}, []string{"description"}},
		{"long title", ForumRequest{Title: strings.Repeat("t", 301), Description: "d"}, []string{"title"}},
		{"blank tag", ForumRequest{Title: "Hello", Description: "World", Tags: tagsPtr("go", "  ")}, []string{"tags"}},
		{"long tag", ForumRequest{Title: "Hello", Description: "World", Tags: tagsPtr(strings.Repeat("x", 51))}, []string{"tags"}},
		{"too many tags", ForumRequest{Title: "Hello", Description: "World", Tags: &tooMany}, []string{"tags"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			err := Check(&req)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.fields, fieldsOf(t, err))
		})
	}
}

func TestForumRequestTagList(t *testing.T) {
	assert.Equal(t, []string{}, ForumRequest{}.TagList())

	req := ForumRequest{Title: " T ", Description: " D ", Tags: tagsPtr(" go ", "web")}
	require.NoError(t, Check(&req))
	assert.Equal(t, "T", req.Title)
	assert.Equal(t, []string{"go", "web"}, req.TagList())
}

func TestCommentRequest(t *testing.T) {
	ok := CommentRequest{Content: "  hi  "}
	require.NoError(t, Check(&ok))
	assert.Equal(t, "hi", ok.Content)

	blank := CommentRequest{Content: "   "}
	assert.Equal(t, []string{"content"}, fieldsOf(t, Check(&blank)))

	long := CommentRequest{Content: strings.Repeat("c", 10001)}
	assert.Equal(t, []string{"content"}, fieldsOf(t, Check(&long)))
}
