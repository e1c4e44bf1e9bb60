package validation

import (
	"strings"
	"testing"

	"simplefeed/app/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCommentValidation(t *testing.T) {
	engine := NewCommentEngine(DefaultOptions())

	tests := []struct {
		name    string
		comment *models.Comment
		want    []string
	}{
		{
			name:    "valid comment",
			comment: &models.Comment{Commenter: "Commenter1", Body: "New body1"},
		},
		{
			name:    "no commenter",
			comment: &models.Comment{Body: "New body1"},
			want:    []string{"Commenter can't be blank"},
		},
		{
			name:    "no body",
			comment: &models.Comment{Commenter: "Commenter1"},
			want:    []string{"Body can't be blank"},
		},
		{
			name:    "short body",
			comment: &models.Comment{Commenter: "Commenter1", Body: "abcd"},
			want:    []string{"Body is too short (minimum is 5 characters)"},
		},
		{
			name:    "long body",
			comment: &models.Comment{Commenter: "Commenter1", Body: strings.Repeat("a", 141)},
			want:    []string{"Body is too long (maximum is 140 characters)"},
		},
		{
			name:    "body of exactly 5",
			comment: &models.Comment{Commenter: "Commenter1", Body: "abcde"},
		},
		{
			name:    "body of exactly 140",
			comment: &models.Comment{Commenter: "Commenter1", Body: strings.Repeat("a", 140)},
		},
		{
			name:    "140 multibyte characters",
			comment: &models.Comment{Commenter: "Commenter1", Body: strings.Repeat("댓", 140)},
		},
		{
			name:    "invalid comment",
			comment: &models.Comment{},
			want:    []string{"Commenter can't be blank", "Body can't be blank"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := engine.Validate(OnCreate, tt.comment, nil)
			if diff := cmp.Diff(tt.want, errs.FullMessages()); diff != "" {
				t.Errorf("messages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCommentDuplicateOfLast(t *testing.T) {
	engine := NewCommentEngine(DefaultOptions())
	last := &models.Comment{ID: 4, PostID: 1, Commenter: "Commenter1", Body: "New body1"}

	t.Run("identical comment reports both fields", func(t *testing.T) {
		errs := engine.Validate(OnCreate, &models.Comment{Commenter: "Commenter1", Body: "New body1"}, last)
		assert.True(t, errs.Has("commenter", CodeDuplicate))
		assert.True(t, errs.Has("body", CodeDuplicate))
		assert.Equal(t, []string{
			"Commenter identical to last commenter",
			"Body identical to last body",
		}, errs.FullMessages())
	})

	t.Run("fields are checked independently", func(t *testing.T) {
		errs := engine.Validate(OnCreate, &models.Comment{Commenter: "Commenter2", Body: "New body1"}, last)
		assert.Equal(t, []string{"Body identical to last body"}, errs.FullMessages())
	})

	t.Run("first comment on a post", func(t *testing.T) {
		errs := engine.Validate(OnCreate, &models.Comment{Commenter: "Commenter1", Body: "New body1"}, nil)
		assert.True(t, errs.Empty())
	})

	t.Run("disabled", func(t *testing.T) {
		engine := NewCommentEngine(Options{DuplicatePostCheck: true})
		errs := engine.Validate(OnCreate, &models.Comment{Commenter: "Commenter1", Body: "New body1"}, last)
		assert.True(t, errs.Empty())
		assert.False(t, engine.NeedsPrevious(OnCreate))
	})
}
