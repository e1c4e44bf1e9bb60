package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Code identifies the kind of a field violation.
type Code string

const (
	CodeRequired    Code = "required"
	CodeTooShort    Code = "too_short"
	CodeTooLong     Code = "too_long"
	CodeInvalidWord Code = "invalid_word"
	CodeDuplicate   Code = "duplicate"
	CodeUnknownTag  Code = "unknown_tag"
)

// FieldError is a single violation of a field rule.
type FieldError struct {
	Field   string
	Code    Code
	Min     int
	Max     int
	Words   []string
	Message string
}

// Required reports a blank required field.
func Required(field string) FieldError {
	return FieldError{Field: field, Code: CodeRequired, Message: "can't be blank"}
}

// TooShort reports a value shorter than min characters.
func TooShort(field string, min int) FieldError {
	return FieldError{
		Field:   field,
		Code:    CodeTooShort,
		Min:     min,
		Message: fmt.Sprintf("is too short (minimum is %d characters)", min),
	}
}

// TooLong reports a value longer than max characters.
func TooLong(field string, max int) FieldError {
	return FieldError{
		Field:   field,
		Code:    CodeTooLong,
		Max:     max,
		Message: fmt.Sprintf("is too long (maximum is %d characters)", max),
	}
}

// InvalidWord reports every banned word found in the field.
func InvalidWord(field string, words []string) FieldError {
	return FieldError{
		Field:   field,
		Code:    CodeInvalidWord,
		Words:   words,
		Message: fmt.Sprintf("Invalid word in %s: %s", field, strings.Join(words, ", ")),
	}
}

// Duplicate reports a field equal to the same field of the previous record.
// subject names that record in the message, e.g. "post" or "commenter".
func Duplicate(field, subject string) FieldError {
	return FieldError{Field: field, Code: CodeDuplicate, Message: "identical to last " + subject}
}

// UnknownTag reports a nested tag id that does not belong to the post.
func UnknownTag(id int) FieldError {
	return FieldError{Field: "tags", Code: CodeUnknownTag, Message: fmt.Sprintf("with ID=%d not found for this post", id)}
}

// FullMessage prefixes the message with the humanized field name.
func (e FieldError) FullMessage() string {
	return Humanize(e.Field) + " " + e.Message
}

// Errors collects field errors keeping the order in which fields first failed.
type Errors struct {
	order  []string
	fields map[string][]FieldError
}

// NewErrors returns an empty error set.
func NewErrors() *Errors {
	return &Errors{fields: make(map[string][]FieldError)}
}

// Add records errs.
func (e *Errors) Add(errs ...FieldError) {
	for _, fe := range errs {
		if _, ok := e.fields[fe.Field]; !ok {
			e.order = append(e.order, fe.Field)
		}
		e.fields[fe.Field] = append(e.fields[fe.Field], fe)
	}
}

// Empty reports whether no rule failed.
func (e *Errors) Empty() bool {
	return e == nil || len(e.order) == 0
}

// Len is the number of individual violations.
func (e *Errors) Len() int {
	if e == nil {
		return 0
	}
	n := 0
	for _, errs := range e.fields {
		n += len(errs)
	}
	return n
}

// Fields returns the failed field names in order.
func (e *Errors) Fields() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.order...)
}

// Details returns the violations recorded for field.
func (e *Errors) Details(field string) []FieldError {
	if e == nil {
		return nil
	}
	return e.fields[field]
}

// On returns the messages recorded for field.
func (e *Errors) On(field string) []string {
	var msgs []string
	for _, fe := range e.Details(field) {
		msgs = append(msgs, fe.Message)
	}
	return msgs
}

// Has reports whether field failed with code.
func (e *Errors) Has(field string, code Code) bool {
	for _, fe := range e.Details(field) {
		if fe.Code == code {
			return true
		}
	}
	return false
}

// FullMessages returns every violation as a sentence, e.g.
// "Body is too short (minimum is 5 characters)".
func (e *Errors) FullMessages() []string {
	if e == nil {
		return nil
	}
	var msgs []string
	for _, field := range e.order {
		for _, fe := range e.fields[field] {
			msgs = append(msgs, fe.FullMessage())
		}
	}
	return msgs
}

// Map returns field -> messages.
func (e *Errors) Map() map[string][]string {
	m := make(map[string][]string)
	if e == nil {
		return m
	}
	for _, field := range e.order {
		m[field] = e.On(field)
	}
	return m
}

// MarshalJSON writes {"field": ["message", ...]} with fields in failure order.
func (e *Errors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if e != nil {
		for i, field := range e.order {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(field)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(e.On(field))
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *Errors) Error() string {
	return "validation failed: " + strings.Join(e.FullMessages(), "; ")
}

// Humanize turns a field name into a sentence prefix: "post_id" -> "Post",
// "commenter" -> "Commenter".
func Humanize(field string) string {
	s := strings.TrimSuffix(field, "_id")
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
