// Package validate evaluates form values against declarative rule
// schemas and reports localized errors, for both on-submit full-form
// validation and per-keystroke feedback.
package validate

import "unicode/utf8"

/*
Field evaluates one value against one rule and returns the first
failure, or nil if the field is valid.

CHECK ORDER (fixed, first failure wins):
----------------------------------------
1. Required: an empty value on a required field fails immediately.
2. Optional-empty short-circuit: an empty optional field is valid;
   no further rule ever sees an absent value.
3. Length bounds, minimum before maximum (strings only).
4. Pattern.
5. Custom predicate.

At most one error is reported per field per call.
*/
func Field(name string, value any, rule Rule, loc Locale) *Error {
	empty := isEmpty(value)

	if rule.Required && empty {
		return &Error{Field: name, Message: message(loc, "required"), Kind: KindRequired}
	}
	if empty {
		return nil
	}

	if s, ok := value.(string); ok {
		n := utf8.RuneCountInString(s)
		if rule.MinLength > 0 && n < rule.MinLength {
			return &Error{Field: name, Message: minLengthMessage(loc, rule.MinLength), Kind: KindLength}
		}
		if rule.MaxLength > 0 && n > rule.MaxLength {
			return &Error{Field: name, Message: maxLengthMessage(loc, rule.MaxLength), Kind: KindLength}
		}
		if rule.Pattern != nil && !rule.Pattern.MatchString(s) {
			return &Error{Field: name, Message: formatMessage(loc, rule.Pattern.Name), Kind: KindFormat}
		}
	}

	if rule.Custom != nil && !rule.Custom(value) {
		return &Error{Field: name, Message: message(loc, "custom"), Kind: KindCustom}
	}

	return nil
}

// Report is the outcome of full-form validation.
type Report struct {
	Valid  bool
	Errors []Error
}

// Form runs Field for every schema entry in declaration order and
// collects the failures. Data keys with no schema entry are ignored.
func Form(data map[string]any, schema Schema, loc Locale) Report {
	var errs []Error
	for _, fr := range schema {
		if err := Field(fr.Name, data[fr.Name], fr.Rule, loc); err != nil {
			errs = append(errs, *err)
		}
	}
	return Report{Valid: len(errs) == 0, Errors: errs}
}

// Validity is the tri-state verdict used for real-time feedback.
// Unevaluated is a first-class state: "no verdict yet" is not the
// same as "checked and fine".
type Validity int

const (
	Unevaluated Validity = iota
	Valid
	Invalid
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unevaluated"
	}
}

// FieldResult is the outcome of real-time validation. Err is non-nil
// exactly when Validity is Invalid.
type FieldResult struct {
	Validity Validity
	Err      *Error
}

/*
FieldRealTime validates a single field the way an on-change handler
needs it: an empty optional field yields Unevaluated so the UI can
stay neutral, an empty required field is Invalid with the required
message, and anything else delegates to Field.
*/
func FieldRealTime(name string, value any, rule Rule, loc Locale) FieldResult {
	if isEmpty(value) {
		if rule.Required {
			return FieldResult{
				Validity: Invalid,
				Err:      &Error{Field: name, Message: message(loc, "required"), Kind: KindRequired},
			}
		}
		return FieldResult{Validity: Unevaluated}
	}
	if err := Field(name, value, rule, loc); err != nil {
		return FieldResult{Validity: Invalid, Err: err}
	}
	return FieldResult{Validity: Valid}
}

/*
FieldState is the UI-facing state of one input: its current value,
the latest verdict, and whether the user has interacted with it yet.
An untouched field always reads as Unevaluated regardless of value.
*/
type FieldState struct {
	Value   any
	Result  FieldResult
	Touched bool
}

// Touch records a user interaction with a new value and re-validates.
func (s *FieldState) Touch(name string, value any, rule Rule, loc Locale) {
	s.Value = value
	s.Touched = true
	s.Result = FieldRealTime(name, value, rule, loc)
}
