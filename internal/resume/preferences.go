package resume

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Template identifies one of the fixed layout variants.
type Template string

const (
	TemplateModern   Template = "modern"
	TemplateClassic  Template = "classic"
	TemplateCreative Template = "creative"
)

// ErrUnknownTemplate is returned for a name that is not one of Templates.
var ErrUnknownTemplate = errors.New("unknown template")

// Templates lists the variants in the order the editor offers them.
var Templates = []Template{TemplateModern, TemplateClassic, TemplateCreative}

// ParseTemplate validates a template name.
func ParseTemplate(name string) (Template, error) {
	t := Template(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Templates {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}

// Typography holds the font preferences applied to the whole document.
type Typography struct {
	FontFamily string `json:"fontFamily"`
	FontSize   int    `json:"fontSize"` // percent of the 16px base
	Color      string `json:"color"`
}

// Preferences are the presentation choices persisted next to the record.
type Preferences struct {
	Template    Template   `json:"template"`
	Theme       string     `json:"theme"`
	CustomColor string     `json:"customColor,omitempty"`
	Typography  Typography `json:"typography"`
}

// Snapshot is the persisted blob: the record and its preferences flattened
// into one JSON object.
type Snapshot struct {
	Record
	Preferences
}

const (
	DefaultFontFamily = "'Cairo', sans-serif"
	DefaultFontSize   = 100
	DefaultTextColor  = "var(--text-main)"
	DefaultTheme      = "blue"
	CustomTheme       = "custom"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether s is a #rgb or #rrggbb colour.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(strings.TrimSpace(s))
}

// DefaultSnapshot returns the state of a freshly reset editor: one blank
// experience and one blank education entry.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Record: Record{
			Experience: []Experience{{}},
			Education:  []Education{{}},
		},
		Preferences: DefaultPreferences(),
	}
}

func DefaultPreferences() Preferences {
	return Preferences{
		Template: TemplateModern,
		Theme:    DefaultTheme,
		Typography: Typography{
			FontFamily: DefaultFontFamily,
			FontSize:   DefaultFontSize,
			Color:      DefaultTextColor,
		},
	}
}

// Normalize fills missing preferences with defaults. The record itself is
// left as entered.
func (s *Snapshot) Normalize() {
	def := DefaultPreferences()
	if t, err := ParseTemplate(string(s.Template)); err == nil {
		s.Template = t
	} else {
		s.Template = def.Template
	}
	if strings.TrimSpace(s.Theme) == "" {
		s.Theme = def.Theme
	}
	if s.Theme != CustomTheme {
		s.CustomColor = ""
	}
	if strings.TrimSpace(s.Typography.FontFamily) == "" {
		s.Typography.FontFamily = def.Typography.FontFamily
	}
	if s.Typography.FontSize <= 0 {
		s.Typography.FontSize = def.Typography.FontSize
	}
	if strings.TrimSpace(s.Typography.Color) == "" {
		s.Typography.Color = def.Typography.Color
	}
}
