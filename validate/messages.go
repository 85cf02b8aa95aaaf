package validate

import "fmt"

// Locale selects the language of validation messages. It is passed
// explicitly on every call; there is no process-wide locale.
type Locale string

const (
	TR Locale = "tr"
	EN Locale = "en"
)

// Static message tables. Length messages are functions of the bound
// and live in minLengthMessage / maxLengthMessage below.
var messages = map[Locale]map[string]string{
	TR: {
		"required":            "Bu alan zorunludur",
		"custom":              "Geçersiz değer",
		"format.generic":      "Geçersiz değer",
		"format.email":        "Geçerli bir e-posta adresi giriniz",
		"format.phone":        "Geçerli bir telefon numarası giriniz",
		"format.personalName": "Geçerli bir ad soyad giriniz",
		"format.companyName":  "Geçerli bir firma adı giriniz",
	},
	EN: {
		"required":            "This field is required",
		"custom":              "Invalid value",
		"format.generic":      "Invalid value",
		"format.email":        "Please enter a valid email address",
		"format.phone":        "Please enter a valid phone number",
		"format.personalName": "Please enter a valid name",
		"format.companyName":  "Please enter a valid company name",
	},
}

// message resolves a key for a locale. Unknown locales read the
// English table so a typo never produces an empty UI string.
func message(loc Locale, key string) string {
	tbl, ok := messages[loc]
	if !ok {
		tbl = messages[EN]
	}
	if msg, ok := tbl[key]; ok {
		return msg
	}
	return messages[EN]["format.generic"]
}

// formatMessage maps a pattern name to its localized message. Only
// the canonical patterns have dedicated text.
func formatMessage(loc Locale, patternName string) string {
	switch patternName {
	case PatternEmail, PatternPhone, PatternPersonalName, PatternCompanyName:
		return message(loc, "format."+patternName)
	default:
		return message(loc, "format.generic")
	}
}

func minLengthMessage(loc Locale, n int) string {
	if loc == TR {
		return fmt.Sprintf("En az %d karakter giriniz", n)
	}
	return fmt.Sprintf("Must be at least %d characters", n)
}

func maxLengthMessage(loc Locale, n int) string {
	if loc == TR {
		return fmt.Sprintf("En fazla %d karakter giriniz", n)
	}
	return fmt.Sprintf("Must be at most %d characters", n)
}
