package validate

import (
	"reflect"
	"strings"
	"unicode"
)

// Kind classifies a validation error by the rule that produced it.
type Kind string

const (
	KindRequired Kind = "required"
	KindFormat   Kind = "format"
	KindLength   Kind = "length"
	KindCustom   Kind = "custom"
)

/*
Rule is a declarative constraint on one field. Rules are pure data,
defined once at startup and never mutated by the engine.

Length bounds and patterns apply to string values only. Custom
receives the raw value and may implement multi-step logic of its own;
it runs last, after every other check has passed.

A rule with MinLength greater than MaxLength is a programmer error
the engine does not guard against.
*/
type Rule struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *Pattern
	Custom    func(any) bool
}

// FieldRule pairs a field name with its rule.
type FieldRule struct {
	Name string
	Rule Rule
}

// Schema maps form fields to rules. It is a slice, not a map, so
// full-form validation reports errors in declaration order.
type Schema []FieldRule

// Error is one validation failure. It is plain data handed back to
// the caller, never an exception; Message is already localized.
type Error struct {
	Field   string
	Message string
	Kind    Kind
}

func (e *Error) Error() string { return e.Field + ": " + e.Message }

/*
DigitsBetween returns a predicate accepting any string that contains
between lo and hi digits inclusive, ignoring every other character.

This is the phone rule: "0532 123 45 67" strips to 11 digits and
passes, "123" strips to 3 and fails. It is independent of the Phone
pattern, which only vets the characters used.
*/
func DigitsBetween(lo, hi int) func(any) bool {
	return func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		n := 0
		for _, r := range s {
			if unicode.IsDigit(r) {
				n++
			}
		}
		return n >= lo && n <= hi
	}
}

// isEmpty decides what "no value" means: nil, a string that is blank
// after trimming, or a zero-length slice or array of any element
// type. Everything else, including false and numeric zero, counts as
// a value.
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len() == 0
	}
	return false
}
