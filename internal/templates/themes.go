package templates

import (
	"regexp"
	"strings"

	"cvBuilder/internal/resume"
)

// Theme is a named accent palette.
type Theme struct {
	ID      string
	Primary string
	Light   string
}

// Themes is the palette offered by the editor, in display order.
var Themes = []Theme{
	{ID: "blue", Primary: "#1a73e8", Light: "#e8f0fe"},
	{ID: "gray", Primary: "#455a64", Light: "#eceff1"},
	{ID: "coral", Primary: "#ff6b6b", Light: "#fff0f0"},
	{ID: "green", Primary: "#2e7d32", Light: "#e8f5e9"},
	{ID: "purple", Primary: "#7b1fa2", Light: "#f3e5f5"},
	{ID: "dark", Primary: "#3c4043", Light: "#f1f3f4"},
}

// ResolveTheme returns the palette for the preferences. A custom theme uses
// the custom colour with a ~8% opacity tint; unknown ids fall back to the
// first theme.
func ResolveTheme(prefs resume.Preferences) Theme {
	if prefs.Theme == resume.CustomTheme && resume.IsHexColor(prefs.CustomColor) {
		c := expandHex(strings.TrimSpace(prefs.CustomColor))
		return Theme{ID: resume.CustomTheme, Primary: c, Light: c + "15"}
	}
	for _, t := range Themes {
		if t.ID == prefs.Theme {
			return t
		}
	}
	return Themes[0]
}

// expandHex turns #abc into #aabbcc so an alpha suffix can be appended.
func expandHex(c string) string {
	if len(c) != 4 {
		return strings.ToLower(c)
	}
	var b strings.Builder
	b.WriteByte('#')
	for _, r := range c[1:] {
		b.WriteRune(r)
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

var (
	fontFamilyPattern = regexp.MustCompile(`^[\p{L}\p{N} ,'"_-]+$`)
	cssColorPattern   = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|var\(--[a-z-]+\)|[a-zA-Z]+)$`)
)

func safeFontFamily(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !fontFamilyPattern.MatchString(s) {
		return resume.DefaultFontFamily
	}
	return s
}

func safeColor(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !cssColorPattern.MatchString(s) {
		return resume.DefaultTextColor
	}
	return s
}
