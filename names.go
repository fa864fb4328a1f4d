package nanocmp

import "regexp"

// tagNamePattern accepts lowercase names that start with a letter and contain
// at least one hyphen.
var tagNamePattern = regexp.MustCompile(`^[a-z][.0-9_a-z]*-[\-.0-9_a-z]*$`)

// reservedTagNames are hyphenated names already taken by SVG and MathML.
var reservedTagNames = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

// ValidTagName is the default name predicate: lowercase, at least one
// hyphen, and not a reserved name.
//
//	ValidTagName("my-card")        // true
//	ValidTagName("Invalid_Tag")    // false
//	ValidTagName("annotation-xml") // false (reserved)
func ValidTagName(name string) bool {
	return tagNamePattern.MatchString(name) && !reservedTagNames[name]
}

// IsReserved reports whether name is a reserved hyphenated element name.
// Reserved names are rejected even when a custom validator accepts them.
func IsReserved(name string) bool {
	return reservedTagNames[name]
}
