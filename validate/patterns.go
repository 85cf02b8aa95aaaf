package validate

import "regexp"

/*
Pattern is a named regular expression. The name is the stable
identity: error-message dispatch keys on it, never on the regexp
object, so two rules built from the same expression still resolve to
the same localized message.
*/
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

// NewPattern builds a pattern from a name and expression. The
// expression must compile; patterns are startup configuration, so a
// bad one panics immediately rather than failing per-field later.
func NewPattern(name, expr string) Pattern {
	return Pattern{Name: name, re: regexp.MustCompile(expr)}
}

// MatchString reports whether s matches the pattern.
func (p Pattern) MatchString(s string) bool { return p.re.MatchString(s) }

// Canonical pattern names. Each has a dedicated localized message;
// any other name falls back to the generic invalid-value message.
const (
	PatternEmail        = "email"
	PatternPhone        = "phone"
	PatternPersonalName = "personalName"
	PatternCompanyName  = "companyName"
)

// The canonical patterns used by the lead forms. Name and company
// classes include the Turkish alphabet; the phone pattern accepts
// formatted input and leaves digit counting to the custom rule.
var (
	Email        = NewPattern(PatternEmail, `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	Phone        = NewPattern(PatternPhone, `^\+?[0-9 ().\-]{7,20}$`)
	PersonalName = NewPattern(PatternPersonalName, `^[a-zA-ZçÇğĞıİöÖşŞüÜ'\- ]{2,50}$`)
	CompanyName  = NewPattern(PatternCompanyName, `^[0-9a-zA-ZçÇğĞıİöÖşŞüÜ&.,'\- ]{2,100}$`)
)
