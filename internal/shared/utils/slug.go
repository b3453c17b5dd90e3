package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidIdentifier is returned when an identifier part has no usable characters
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Characters replaced by a dash when building identifiers
var (
	slugSeparatorPattern = regexp.MustCompile("[ ’–—―′¿'`~!@#$%^&*()_|+\\-=?;:\",.<>{}\\[\\]\\\\/]")
	slugDashRunPattern   = regexp.MustCompile(`-+`)
)

// Sanitize lowercases s and collapses punctuation and whitespace into single dashes
func Sanitize(s string) string {
	out := strings.ToLower(s)
	out = slugSeparatorPattern.ReplaceAllString(out, "-")
	out = slugDashRunPattern.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

// ToID builds the entry identifier "<group>--<name>" from a group id or title
// and an entry name. Both parts must keep at least one character after
// sanitizing.
func ToID(group, name string) (string, error) {
	g, err := sanitizeSafe(group, "group")
	if err != nil {
		return "", err
	}
	n, err := sanitizeSafe(name, "name")
	if err != nil {
		return "", err
	}
	return g + "--" + n, nil
}

func sanitizeSafe(s, part string) (string, error) {
	sanitized := Sanitize(s)
	if sanitized == "" {
		return "", fmt.Errorf("%w: %s '%s' must include alphanumeric characters", ErrInvalidIdentifier, part, s)
	}
	return sanitized, nil
}

// StoryNameFromExport turns an export key into a display name:
// "primaryButton" becomes "Primary Button", "someHTTPCall2" becomes "Some HTTP Call 2"
func StoryNameFromExport(key string) string {
	// Casers keep state, so each call gets its own
	caser := cases.Title(language.Und, cases.NoLower)
	words := splitWords(key)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// splitWords breaks an identifier on separators, case changes and digit runs
func splitWords(s string) []string {
	runes := []rune(s)
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(current) > 0 {
			prev := current[len(current)-1]
			switch {
			case unicode.IsDigit(r) != unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsLower(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				// "HTTPRequest": the last capital starts the next word
				flush()
			}
		}
		current = append(current, r)
	}
	flush()

	return words
}
