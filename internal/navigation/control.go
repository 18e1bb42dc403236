// internal/navigation/control.go
package navigation

import (
	"fmt"
	"strings"
)

// TemplateRef points at a template image, relative to the asset root. Loading
// the pixels is the vision layer's job.
type TemplateRef string

// Control binds a keyword to the template of the on-screen button and to the
// screen the client shows after the button is pressed. It is immutable.
type Control struct {
	keyword  string
	template TemplateRef
	target   ScreenID
}

// NewControl validates and builds a Control. The keyword is stored
// lower-cased and trimmed.
func NewControl(keyword string, template TemplateRef, target ScreenID) (Control, error) {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" || len(tokenize(kw)) == 0 {
		return Control{}, fmt.Errorf("%w (template %q)", ErrEmptyKeyword, template)
	}
	return Control{keyword: kw, template: template, target: target}, nil
}

func (c Control) Keyword() string       { return c.keyword }
func (c Control) Template() TemplateRef { return c.template }
func (c Control) Target() ScreenID      { return c.target }

func (c Control) String() string {
	return fmt.Sprintf("%q -> %s", c.keyword, c.target)
}
