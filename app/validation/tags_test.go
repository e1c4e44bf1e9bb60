package validation

import (
	"testing"

	"simplefeed/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterTagAttributes(t *testing.T) {
	attrs := []models.TagAttributes{
		{Name: "go"},
		{},
		{Name: "   "},
		{ID: 3},
		{Destroy: true},
	}

	kept := FilterTagAttributes(attrs)
	assert.Equal(t, []models.TagAttributes{{Name: "go"}, {ID: 3}, {Destroy: true}}, kept)
}

func TestApplyTags(t *testing.T) {
	post := &models.Post{ID: 1, Tags: []*models.Tag{
		{ID: 1, PostID: 1, Name: "go"},
		{ID: 2, PostID: 1, Name: "web"},
	}}

	errs := ApplyTags(post, []models.TagAttributes{
		{ID: 1, Name: "golang"},
		{ID: 2, Destroy: true},
		{Name: "blog"},
		{Name: "skipped", Destroy: true},
		{},
		{ID: 42, Name: "missing"},
	})

	require.Len(t, errs, 1)
	assert.Equal(t, CodeUnknownTag, errs[0].Code)
	require.Len(t, post.Tags, 2)
	assert.Equal(t, "golang", post.Tags[0].Name)
	assert.Equal(t, 0, post.Tags[1].ID)
	assert.Equal(t, "blog", post.Tags[1].Name)
	assert.Equal(t, 1, post.Tags[1].PostID)
}
