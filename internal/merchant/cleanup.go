package merchant

import (
	"regexp"
	"strings"
)

var paymentPrefixes = []string{"IC*", "SQ *", "TST*"}

var (
	storeNumberRe   = regexp.MustCompile(`#\d+`)
	trailingDigitRe = regexp.MustCompile(`\s+\d+`)
)

// Cleanup strips payment-processor prefixes and store numbers from a
// raw merchant name and title-cases the remainder. Used as the
// fallback display name when the suggester is unavailable.
func Cleanup(raw string) string {
	name := raw
	for _, p := range paymentPrefixes {
		name = strings.ReplaceAll(name, p, "")
	}

	name = storeNumberRe.ReplaceAllString(name, "")
	name = trailingDigitRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	return titleCase(name)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
