package views

import (
	"bytes"
	"testing"

	"simplefeed/app/flash"
	"simplefeed/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, name string, page *Page) string {
	t.Helper()
	templates, err := Load()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, templates.Render(&buf, name, page))
	return buf.String()
}

func TestLoadParsesEveryPage(t *testing.T) {
	templates, err := Load()
	require.NoError(t, err)
	for name := range pages {
		assert.Contains(t, templates, name)
	}
}

func TestRenderUnknownPage(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, MustLoad().Render(&buf, "missing", &Page{}))
}

func TestRenderIndex(t *testing.T) {
	out := render(t, "index", &Page{
		Posts: []*models.Post{{ID: 3, Title: "<b>Hello</b> world", Name: "kim"}},
		Flash: &flash.Message{Notice: "Post was successfully created."},
	})
	assert.Contains(t, out, `href="/posts/3"`)
	assert.Contains(t, out, "&lt;b&gt;Hello&lt;/b&gt; world")
	assert.Contains(t, out, "Post was successfully created.")
}

func TestRenderShowWithComments(t *testing.T) {
	post := &models.Post{ID: 1, Title: "Shown post", Tags: []*models.Tag{{ID: 1, Name: "go"}}}
	out := render(t, "show", &Page{
		Post:     post,
		Comments: []*models.Comment{{ID: 9, PostID: 1, Commenter: "lee", Body: "nice post"}},
		Flash:    &flash.Message{Errors: []string{"Body can't be blank"}},
	})
	assert.Contains(t, out, "Shown post")
	assert.Contains(t, out, "nice post")
	assert.Contains(t, out, `action="/posts/1/comments/9"`)
	assert.Contains(t, out, "Body can&#39;t be blank")
	assert.Contains(t, out, `<span class="tag">go</span>`)
}

func TestRenderFormWithErrors(t *testing.T) {
	out := render(t, "edit", &Page{
		Post:   &models.Post{ID: 4, Title: "abc", Tags: []*models.Tag{{ID: 2, Name: "old"}}},
		Errors: []string{"Title is too short (minimum is 5 characters)"},
		Action: "/posts/4",
		Method: "patch",
	})
	assert.Contains(t, out, `value="abc"`)
	assert.Contains(t, out, "Title is too short (minimum is 5 characters)")
	assert.Contains(t, out, `name="_method" value="patch"`)
	assert.Contains(t, out, `name="post[tags_attributes][0][id]" value="2"`)
	assert.Contains(t, out, `name="post[tags_attributes][1][name]"`)
	assert.Contains(t, out, "Update Post")
}

func TestRenderSearchEmpty(t *testing.T) {
	out := render(t, "search", &Page{Keyword: "nothing"})
	assert.Contains(t, out, "No posts found.")
}
