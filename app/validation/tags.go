package validation

import (
	"strings"

	"simplefeed/app/models"
)

// FilterTagAttributes drops nested tag entries whose fields are all blank.
func FilterTagAttributes(attrs []models.TagAttributes) []models.TagAttributes {
	kept := make([]models.TagAttributes, 0, len(attrs))
	for _, a := range attrs {
		if a.ID == 0 && strings.TrimSpace(a.Name) == "" && !a.Destroy {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// ApplyTags filters attrs and applies them to post: new entries are
// appended with a zero id, existing ones renamed or removed. New entries
// flagged for destruction are ignored. Ids not owned by the post are
// reported and leave the post's tags untouched for that entry.
func ApplyTags(post *models.Post, attrs []models.TagAttributes) []FieldError {
	var errs []FieldError
	for _, a := range FilterTagAttributes(attrs) {
		if a.ID == 0 {
			if !a.Destroy {
				post.Tags = append(post.Tags, &models.Tag{PostID: post.ID, Name: a.Name})
			}
			continue
		}
		tag, ok := post.FindTag(a.ID)
		if !ok {
			errs = append(errs, UnknownTag(a.ID))
			continue
		}
		if a.Destroy {
			post.RemoveTag(a.ID)
			continue
		}
		tag.Name = a.Name
	}
	return errs
}
