package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Technology classifies a project by the stack it was built with.
type Technology string

const (
	ReactNative Technology = "react-native"
	Flutter     Technology = "flutter"
	Java        Technology = "java"
	Kotlin      Technology = "kotlin"
)

// FilterAll is the admin list filter value that selects every technology.
const FilterAll = "all"

// Technologies lists every known technology in display order.
var Technologies = []Technology{ReactNative, Flutter, Java, Kotlin}

var upper = cases.Upper(language.Und)

// ParseTechnology validates a raw technology string.
func ParseTechnology(s string) (Technology, error) {
	t := Technology(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTechnology, s)
	}
	return t, nil
}

// Valid reports whether t is one of the known technologies.
func (t Technology) Valid() bool {
	for _, known := range Technologies {
		if t == known {
			return true
		}
	}
	return false
}

// Label is the upper-cased badge text, e.g. "REACT-NATIVE".
func (t Technology) Label() string {
	return upper.String(string(t))
}

// Icon returns the glyph shown when a project has no image.
func (t Technology) Icon() string {
	switch t {
	case ReactNative:
		return "⚛️"
	case Flutter:
		return "🎯"
	case Java:
		return "☕"
	case Kotlin:
		return "🚀"
	default:
		return "📱"
	}
}

// LogoURL returns the brand logo the admin list shows in place of the glyph,
// or "" when the technology has none.
func (t Technology) LogoURL() string {
	if t == Flutter {
		return "https://cdn.simpleicons.org/flutter/02569B"
	}
	return ""
}

// ListFilter is the admin list selection: either FilterAll or a technology.
type ListFilter string

// ParseListFilter maps the raw query value to a filter, defaulting to FilterAll
// for empty or unknown values.
func ParseListFilter(s string) ListFilter {
	if t, err := ParseTechnology(s); err == nil {
		return ListFilter(t)
	}
	return ListFilter(FilterAll)
}

// Technology returns the filtered technology and false when the filter is "all".
func (f ListFilter) Technology() (Technology, bool) {
	if f == FilterAll || f == "" {
		return "", false
	}
	return Technology(f), true
}
