// internal/navigation/screen.go
package navigation

import (
	"strings"
	"unicode"
)

// Screen is one navigable state of the client together with its localized
// control tables. Screens are built fresh by the Registry on every visit.
type Screen struct {
	id       ScreenID
	controls map[Language][]Control
}

// ID returns the screen identifier.
func (s *Screen) ID() ScreenID { return s.id }

// ControlsFor returns the controls declared for lang, falling back to the
// DefaultLanguage set when lang has none. The returned slice is a copy.
func (s *Screen) ControlsFor(lang Language) []Control {
	set := s.controls[lang]
	if len(set) == 0 {
		set = s.controls[DefaultLanguage]
	}
	out := make([]Control, len(set))
	copy(out, set)
	return out
}

// Languages reports which languages have a dedicated (non-fallback) table.
func (s *Screen) Languages() []Language {
	var langs []Language
	for _, l := range []Language{English, Spanish} {
		if len(s.controls[l]) > 0 {
			langs = append(langs, l)
		}
	}
	return langs
}

// FindMatching returns every control whose keyword occurs as a contiguous
// run of tokens in input, in declared order. Matching is case-insensitive and
// treats whitespace, '_', '-' and punctuation as separators.
func (s *Screen) FindMatching(input string, lang Language) []Control {
	words := tokenize(input)
	if len(words) == 0 {
		return nil
	}

	var matched []Control
	for _, c := range s.ControlsFor(lang) {
		if containsRun(words, tokenize(c.keyword)) {
			matched = append(matched, c)
		}
	}
	return matched
}

// tokenize lower-cases s and splits it on anything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// containsRun reports whether needle appears contiguously inside haystack.
func containsRun(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j := range needle {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return true
	}
	return false
}
