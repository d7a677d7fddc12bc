package usecase

import (
	"regexp"
	"strings"
)

// optionalModelPrefixes are vendor prefixes that listings frequently drop
// from model numbers (a "DMC-FZ40" is commonly sold as just "FZ40").
var optionalModelPrefixes = map[string]bool{
	"dsc":  true,
	"dslr": true,
	"dmc":  true,
	"pen":  true,
	"slt":  true,
	"is":   true,
}

// separatorRuns matches any run of the characters treated as equivalent,
// optional token separators in model and family strings.
var separatorRuns = regexp.MustCompile(`[\s_-]+`)

// synthesizePatterns builds the two compiled matchers for a product from
// its family and model. modelPattern recognizes the model alone anywhere
// in a title fragment and serves as a cheap prefilter. fullPattern is the
// authoritative filter: it anchors at the start of the title, tolerates
// up to three leading words of brand and series noise, treats the family
// as an optional hint, and requires a separator before the model so that
// a model like "220 HS" cannot fire inside "SX220 HS". The trailing
// guard rejects a digit immediately after the model, which keeps
// "EOS 10" from firing inside "EOS 100D".
//
// Both patterns are case-insensitive and pure functions of their inputs;
// a missing model degrades to a permissive family-plus-separator pattern
// rather than an error.
func synthesizePatterns(family, model string) (modelPattern, fullPattern *regexp.Regexp) {
	modelFragment := synthesizeModelFragment(model)

	var b strings.Builder
	b.WriteString(`(?i)^(?:\w+[\s_-]*){0,3}`)
	if family != "" {
		b.WriteString(`(?:`)
		b.WriteString(regexp.QuoteMeta(strings.ToLower(family)))
		b.WriteString(`)?`)
		b.WriteString(`(?:\w+\s+)?`)
	}
	b.WriteString(`[\s_-]+`)
	b.WriteString(modelFragment)
	b.WriteString(`(?:[^\d]|$)`)

	modelPattern = regexp.MustCompile(`(?i)` + modelFragment)
	fullPattern = regexp.MustCompile(b.String())
	return modelPattern, fullPattern
}

// synthesizeModelFragment normalizes a model string into a regex
// fragment: lowercase, with every run of whitespace, underscore, or
// hyphen collapsed into an optional separator class, and known vendor
// prefixes made optional.
func synthesizeModelFragment(model string) string {
	tokens := separatorRuns.Split(strings.ToLower(strings.TrimSpace(model)), -1)

	var parts []string
	for _, token := range tokens {
		if token == "" {
			continue
		}
		quoted := regexp.QuoteMeta(token)
		if optionalModelPrefixes[token] {
			quoted = `(?:` + quoted + `)?`
		}
		parts = append(parts, quoted)
	}

	return strings.Join(parts, `[\s_-]*`)
}
