package validation

import "simplefeed/app/models"

// Body length bounds for comments, inclusive.
const (
	BodyMinLength = 5
	BodyMaxLength = 140
)

type commentFields struct {
	Commenter string `json:"commenter" validate:"present"`
	Body      string `json:"body" validate:"present,min=5,max=140"`
}

// NewCommentEngine returns the rule list for comments. The previous record
// handed to Validate must be the last comment of the same post.
func NewCommentEngine(opts Options) *Engine[models.Comment] {
	rules := []Rule[models.Comment]{
		fieldRule("fields", func(c *models.Comment) commentFields {
			return commentFields{Commenter: c.Commenter, Body: c.Body}
		}),
	}
	if opts.DuplicateCommentCheck {
		rules = append(rules, Rule[models.Comment]{Name: "duplicate_of_last", Scope: OnCreate, Check: checkDuplicateComment})
	}
	return NewEngine(rules...)
}

func checkDuplicateComment(c, last *models.Comment) []FieldError {
	if last == nil {
		return nil
	}
	var errs []FieldError
	if c.Commenter == last.Commenter {
		errs = append(errs, Duplicate("commenter", "commenter"))
	}
	if c.Body == last.Body {
		errs = append(errs, Duplicate("body", "body"))
	}
	return errs
}
