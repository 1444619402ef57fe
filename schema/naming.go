package schema

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules      = inflect.NewDefaultRuleset()
	titleCaser = cases.Title(language.English)
)

// Pascal converts a database identifier to PascalCase
// ("user_accounts" -> "UserAccounts"). TypeScript style treats acronyms as
// words, so "api_keys" becomes "ApiKeys", not "APIKeys".
func Pascal(s string) string {
	return pascalWords(splitWords(s))
}

// Camel converts a database identifier to camelCase ("user_id" -> "userId").
func Camel(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return s
	}
	return strings.ToLower(words[0]) + pascalWords(words[1:])
}

// Plural returns the plural form of the given word.
func Plural(s string) string {
	return rules.Pluralize(s)
}

// Singular returns the singular form of the given word.
func Singular(s string) string {
	return rules.Singularize(s)
}

// EntityName derives the exported entity identifier for a table name:
// singularized and PascalCased ("user_accounts" -> "UserAccount").
func EntityName(table string) string {
	return Pascal(Singular(table))
}

// EnumMember derives a safe member identifier for an enum label. Labels may
// contain any characters, so everything outside letters and digits becomes a
// word boundary and each word is title-cased ("in-progress" -> "InProgress").
// A leading digit is prefixed with an underscore to stay a valid identifier.
func EnumMember(label string) string {
	var b strings.Builder
	for _, w := range splitWords(label) {
		b.WriteString(titleCaser.String(w))
	}
	out := b.String()
	if out == "" {
		return "Empty"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}

func pascalWords(words []string) string {
	for i, w := range words {
		words[i] = rules.Capitalize(strings.ToLower(w))
	}
	return strings.Join(words, "")
}

// splitWords breaks an identifier into words on non-alphanumeric runes and
// on lower-to-upper case transitions ("userAccount_id" -> user, Account, id).
func splitWords(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var words []string
	for _, p := range parts {
		start := 0
		runes := []rune(p)
		for i := 1; i < len(runes); i++ {
			if unicode.IsUpper(runes[i]) && !unicode.IsUpper(runes[i-1]) {
				words = append(words, string(runes[start:i]))
				start = i
			}
		}
		words = append(words, string(runes[start:]))
	}
	return words
}
