package validate

// Canned schemas for the site's lead-capture forms. Field order here
// is the order errors appear in on submit.

// ContactSchema validates the contact form: name, email, and message
// are mandatory; company is optional but vetted when present.
func ContactSchema() Schema {
	return Schema{
		{Name: "name", Rule: Rule{Required: true, MinLength: 2, MaxLength: 50, Pattern: &PersonalName}},
		{Name: "email", Rule: Rule{Required: true, Pattern: &Email}},
		{Name: "phone", Rule: Rule{Required: true, Pattern: &Phone, Custom: DigitsBetween(7, 15)}},
		{Name: "company", Rule: Rule{Pattern: &CompanyName}},
		{Name: "message", Rule: Rule{Required: true, MinLength: 10, MaxLength: 1000}},
	}
}

// QuoteSchema validates the quote-request form. Services is a
// multi-select, so required-ness means at least one element.
func QuoteSchema() Schema {
	return Schema{
		{Name: "name", Rule: Rule{Required: true, MinLength: 2, MaxLength: 50, Pattern: &PersonalName}},
		{Name: "email", Rule: Rule{Required: true, Pattern: &Email}},
		{Name: "phone", Rule: Rule{Required: true, Pattern: &Phone, Custom: DigitsBetween(7, 15)}},
		{Name: "company", Rule: Rule{Required: true, MinLength: 2, MaxLength: 100, Pattern: &CompanyName}},
		{Name: "services", Rule: Rule{Required: true}},
		{Name: "details", Rule: Rule{MaxLength: 2000}},
	}
}
