package validation

import (
	"strings"
	"testing"

	"simplefeed/app/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPostValidation(t *testing.T) {
	engine := NewPostEngine(DefaultOptions())

	tests := []struct {
		name string
		post *models.Post
		want map[string][]string
	}{
		{
			name: "valid post",
			post: &models.Post{Title: "New title", Name: "New name", URL: "http://test.com/", Content: "Content"},
			want: map[string][]string{},
		},
		{
			name: "url and content are optional",
			post: &models.Post{Title: "New title", Name: "New name"},
			want: map[string][]string{},
		},
		{
			name: "blank name",
			post: &models.Post{Title: "New title", Name: "   "},
			want: map[string][]string{"name": {"can't be blank"}},
		},
		{
			name: "short title",
			post: &models.Post{Title: "abc", Name: "New name"},
			want: map[string][]string{"title": {"is too short (minimum is 5 characters)"}},
		},
		{
			name: "blank title reports presence only",
			post: &models.Post{Title: "", Name: "New name"},
			want: map[string][]string{"title": {"can't be blank"}},
		},
		{
			name: "title length counts characters not bytes",
			post: &models.Post{Title: "가나다라마", Name: "New name"},
			want: map[string][]string{},
		},
		{
			name: "banned word",
			post: &models.Post{Title: "광고 환영합니다", Name: "New name"},
			want: map[string][]string{"title": {"Invalid word in title: 광고"}},
		},
		{
			name: "short title with banned word reports both",
			post: &models.Post{Title: "광고", Name: "New name"},
			want: map[string][]string{"title": {
				"is too short (minimum is 5 characters)",
				"Invalid word in title: 광고",
			}},
		},
		{
			name: "every banned word is listed",
			post: &models.Post{Title: "무료 도박 성인 혜택", Name: "New name"},
			want: map[string][]string{"title": {"Invalid word in title: 도박, 무료, 혜택, 성인"}},
		},
		{
			name: "everything invalid",
			post: &models.Post{},
			want: map[string][]string{
				"name":  {"can't be blank"},
				"title": {"can't be blank"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := engine.Validate(OnCreate, tt.post, nil)
			if diff := cmp.Diff(tt.want, errs.Map()); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPostValidationCodes(t *testing.T) {
	engine := NewPostEngine(DefaultOptions())

	errs := engine.Validate(OnCreate, &models.Post{Title: "충전 광고", Name: ""}, nil)

	assert.True(t, errs.Has("name", CodeRequired))
	assert.True(t, errs.Has("title", CodeInvalidWord))
	details := errs.Details("title")
	assert.Equal(t, []string{"광고", "충전"}, details[0].Words)
	assert.Equal(t, []string{"name", "title"}, errs.Fields())
}

func TestPostNameOrderPrecedesTitle(t *testing.T) {
	engine := NewPostEngine(DefaultOptions())

	errs := engine.Validate(OnCreate, &models.Post{}, nil)

	assert.Equal(t, []string{"Name can't be blank", "Title can't be blank"}, errs.FullMessages())
}

func TestPostDuplicateOfLast(t *testing.T) {
	last := &models.Post{ID: 1, Title: "New title1", Name: "New name1"}

	tests := []struct {
		name      string
		candidate *models.Post
		want      []string
	}{
		{
			name:      "title and name both identical",
			candidate: &models.Post{Title: "New title1", Name: "New name1"},
			want:      []string{"Title identical to last post", "Name identical to last post"},
		},
		{
			name:      "only title identical",
			candidate: &models.Post{Title: "New title1", Name: "Other name"},
			want:      []string{"Title identical to last post"},
		},
		{
			name:      "only name identical",
			candidate: &models.Post{Title: "Other title", Name: "New name1"},
			want:      []string{"Name identical to last post"},
		},
		{
			name:      "nothing identical",
			candidate: &models.Post{Title: "Other title", Name: "Other name"},
			want:      nil,
		},
	}

	engine := NewPostEngine(DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := engine.Validate(OnCreate, tt.candidate, last)
			assert.Equal(t, tt.want, errs.FullMessages())
		})
	}

	t.Run("no previous post", func(t *testing.T) {
		errs := engine.Validate(OnCreate, &models.Post{Title: "New title1", Name: "New name1"}, nil)
		assert.True(t, errs.Empty())
	})

	t.Run("not applied on update", func(t *testing.T) {
		errs := engine.Validate(OnUpdate, &models.Post{Title: "New title1", Name: "New name1"}, last)
		assert.True(t, errs.Empty())
	})

	t.Run("disabled", func(t *testing.T) {
		engine := NewPostEngine(Options{})
		errs := engine.Validate(OnCreate, &models.Post{Title: "New title1", Name: "New name1"}, last)
		assert.True(t, errs.Empty())
		assert.NotContains(t, engine.Rules(), "duplicate_of_last")
	})
}

func TestPostBannedWordsProperty(t *testing.T) {
	engine := NewPostEngine(DefaultOptions())
	for _, word := range BannedTitleWords {
		t.Run(word, func(t *testing.T) {
			title := "Title " + word + " here"
			errs := engine.Validate(OnSave, &models.Post{Title: title, Name: "New name"}, nil)
			assert.Equal(t, []string{"Invalid word in title: " + word}, errs.On("title"))
		})
	}

	t.Run("short titles", func(t *testing.T) {
		for n := 1; n < TitleMinLength; n++ {
			errs := engine.Validate(OnSave, &models.Post{Title: strings.Repeat("a", n), Name: "New name"}, nil)
			assert.True(t, errs.Has("title", CodeTooShort), "length %d", n)
		}
	})
}
