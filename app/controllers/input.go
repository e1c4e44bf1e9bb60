package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"simplefeed/app/models"
)

// ErrBadInput is returned for bodies that cannot be decoded.
var ErrBadInput = errors.New("malformed request body")

const maxBodyBytes = 1 << 20

// isJSON reports whether the body is JSON. A body without a Content-Type
// is JSON in data mode.
func isJSON(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "" {
		return Negotiate(r) == DataMode
	}
	return ct == "application/json" || strings.HasSuffix(ct, "+json")
}

// decodeJSON reads a JSON object into dst. The object may be wrapped in an
// envelope named root, as in {"post": {...}}.
func decodeJSON(r *http.Request, root string, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	if len(body) == 0 {
		return nil
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	if inner, ok := top[root]; ok && len(inner) > 0 && inner[0] == '{' {
		body = inner
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	return nil
}

// formValue looks up root[field], then the bare field name.
func formValue(form url.Values, root, field string) models.Optional {
	for _, key := range []string{root + "[" + field + "]", field} {
		if vs, ok := form[key]; ok {
			var v string
			if len(vs) > 0 {
				v = vs[len(vs)-1]
			}
			return models.Some(v)
		}
	}
	return models.Optional{}
}

var tagKey = regexp.MustCompile(`^(?:post\[tags_attributes\]|tags_attributes)\[(\d+)\]\[(id|name|_destroy)\]$`)

// formTags collects nested tag entries such as
// post[tags_attributes][0][name], ordered by index.
func formTags(form url.Values) ([]models.TagAttributes, error) {
	byIndex := map[int]*models.TagAttributes{}
	for key, vs := range form {
		m := tagKey.FindStringSubmatch(key)
		if m == nil || len(vs) == 0 {
			continue
		}
		i, _ := strconv.Atoi(m[1])
		attr, ok := byIndex[i]
		if !ok {
			attr = &models.TagAttributes{}
			byIndex[i] = attr
		}
		v := vs[len(vs)-1]
		switch m[2] {
		case "id":
			if v == "" {
				continue
			}
			id, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("%w: tag id %q", ErrBadInput, v)
			}
			attr.ID = id
		case "name":
			attr.Name = v
		case "_destroy":
			attr.Destroy = v == "1" || v == "true"
		}
	}

	indexes := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	out := make([]models.TagAttributes, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, *byIndex[i])
	}
	return out, nil
}

func decodePostInput(r *http.Request) (models.PostInput, error) {
	var in models.PostInput
	if isJSON(r) {
		err := decodeJSON(r, "post", &in)
		return in, err
	}
	if err := r.ParseForm(); err != nil {
		return in, fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	form := r.PostForm
	in.Title = formValue(form, "post", "title")
	in.Name = formValue(form, "post", "name")
	in.URL = formValue(form, "post", "url")
	in.Content = formValue(form, "post", "content")
	tags, err := formTags(form)
	if err != nil {
		return in, err
	}
	in.TagsAttributes = tags
	return in, nil
}

func decodeCommentInput(r *http.Request) (models.CommentInput, error) {
	var in models.CommentInput
	if isJSON(r) {
		err := decodeJSON(r, "comment", &in)
		return in, err
	}
	if err := r.ParseForm(); err != nil {
		return in, fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	in.Commenter = formValue(r.PostForm, "comment", "commenter")
	in.Body = formValue(r.PostForm, "comment", "body")
	return in, nil
}
