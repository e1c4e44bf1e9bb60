package validation

// Scope selects the operations a rule applies to.
type Scope int

const (
	OnSave Scope = iota
	OnCreate
	OnUpdate
)

func (s Scope) covers(op Scope) bool {
	return s == OnSave || s == op
}

// Rule checks one aspect of a candidate. previous is the most recently
// created sibling record, or nil when there is none.
type Rule[T any] struct {
	Name  string
	Scope Scope
	Check func(candidate, previous *T) []FieldError
}

// Engine runs an ordered list of rules and merges every failure.
type Engine[T any] struct {
	rules []Rule[T]
}

// NewEngine returns an engine running rules in the given order.
func NewEngine[T any](rules ...Rule[T]) *Engine[T] {
	return &Engine[T]{rules: rules}
}

// Rules returns the names of the configured rules.
func (e *Engine[T]) Rules() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name)
	}
	return names
}

// NeedsPrevious reports whether any rule for op compares against the
// previous record, so callers can skip loading it.
func (e *Engine[T]) NeedsPrevious(op Scope) bool {
	for _, r := range e.rules {
		if r.Scope != OnSave && r.Scope.covers(op) {
			return true
		}
	}
	return false
}

// Validate runs every rule that covers op. The result is never nil.
func (e *Engine[T]) Validate(op Scope, candidate, previous *T) *Errors {
	errs := NewErrors()
	for _, r := range e.rules {
		if !r.Scope.covers(op) {
			continue
		}
		errs.Add(r.Check(candidate, previous)...)
	}
	return errs
}
