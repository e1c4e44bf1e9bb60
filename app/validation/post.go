package validation

import (
	"strings"

	"simplefeed/app/models"
)

// BannedTitleWords may not appear anywhere in a post title.
var BannedTitleWords = []string{"광고", "도박", "무료", "혜택", "충전", "성인"}

// TitleMinLength is the shortest accepted post title, in characters.
const TitleMinLength = 5

// Options toggles the cross-record rules.
type Options struct {
	DuplicatePostCheck    bool
	DuplicateCommentCheck bool
}

// DefaultOptions enables every rule.
func DefaultOptions() Options {
	return Options{DuplicatePostCheck: true, DuplicateCommentCheck: true}
}

type postFields struct {
	Name  string `json:"name" validate:"present"`
	Title string `json:"title" validate:"present,min=5"`
}

// NewPostEngine returns the rule list for posts.
func NewPostEngine(opts Options) *Engine[models.Post] {
	rules := []Rule[models.Post]{
		fieldRule("fields", func(p *models.Post) postFields {
			return postFields{Name: p.Name, Title: p.Title}
		}),
		{Name: "banned_words", Scope: OnSave, Check: checkTitleWords},
	}
	if opts.DuplicatePostCheck {
		rules = append(rules, Rule[models.Post]{Name: "duplicate_of_last", Scope: OnCreate, Check: checkDuplicatePost})
	}
	return NewEngine(rules...)
}

func checkTitleWords(p, _ *models.Post) []FieldError {
	if strings.TrimSpace(p.Title) == "" {
		return nil
	}
	var found []string
	for _, w := range BannedTitleWords {
		if strings.Contains(p.Title, w) {
			found = append(found, w)
		}
	}
	if len(found) == 0 {
		return nil
	}
	return []FieldError{InvalidWord("title", found)}
}

func checkDuplicatePost(p, last *models.Post) []FieldError {
	if last == nil {
		return nil
	}
	var errs []FieldError
	if p.Title == last.Title {
		errs = append(errs, Duplicate("title", "post"))
	}
	if p.Name == last.Name {
		errs = append(errs, Duplicate("name", "post"))
	}
	return errs
}
