// internal/navigation/language.go
package navigation

import (
	"fmt"
	"strings"
)

// Language selects which localized control table a screen answers with.
type Language int

const (
	English Language = iota
	Spanish
)

// DefaultLanguage is the language every screen must define controls for.
const DefaultLanguage = English

func (l Language) String() string {
	switch l {
	case English:
		return "en"
	case Spanish:
		return "es"
	default:
		return fmt.Sprintf("Language(%d)", int(l))
	}
}

// ParseLanguage accepts ISO codes, English names, and the numeric ids used by
// older configuration files (1 = English, 2 = Spanish).
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "english", "1":
		return English, nil
	case "es", "spanish", "español", "espanol", "2":
		return Spanish, nil
	default:
		return English, fmt.Errorf("unsupported language %q", s)
	}
}
