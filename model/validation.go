package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Keywords of the QML/JavaScript expression language.
var idKeywords = map[string]struct{}{
	"as": {}, "break": {}, "case": {}, "catch": {}, "class": {}, "const": {}, "continue": {},
	"debugger": {}, "default": {}, "delete": {}, "do": {}, "else": {}, "enum": {}, "export": {},
	"extends": {}, "false": {}, "finally": {}, "for": {}, "function": {}, "if": {}, "import": {},
	"in": {}, "instanceof": {}, "let": {}, "new": {}, "null": {}, "print": {}, "return": {},
	"super": {}, "switch": {}, "this": {}, "throw": {}, "true": {}, "try": {}, "typeof": {},
	"undefined": {}, "var": {}, "void": {}, "while": {}, "with": {}, "yield": {},
}

// Words that would shadow common properties or value types when used as ids.
var idsToAvoid = map[string]struct{}{
	"anchors": {}, "baseState": {}, "border": {}, "bottom": {}, "clip": {}, "color": {},
	"data": {}, "date": {}, "enabled": {}, "enumeration": {}, "flow": {}, "focus": {},
	"font": {}, "height": {}, "item": {}, "layer": {}, "left": {}, "list": {}, "margin": {},
	"opacity": {}, "padding": {}, "parent": {}, "point": {}, "right": {}, "scale": {},
	"shaderInfo": {}, "size": {}, "source": {}, "sprite": {}, "spriteSequence": {},
	"state": {}, "string": {}, "text": {}, "texture": {}, "top": {}, "url": {}, "vector": {},
	"visible": {}, "width": {}, "x": {}, "y": {}, "z": {},
}

// IsIDKeyword reports whether id is a reserved word of the expression language.
func IsIDKeyword(id string) bool {
	_, found := idKeywords[id]
	return found
}

// IsIDToAvoid reports whether id shadows a common property or type name.
func IsIDToAvoid(id string) bool {
	_, found := idsToAvoid[id]
	return found
}

func isIDStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z')
}

func isIDChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// IsValidIDSyntax reports whether id is a lexically valid node id: a
// lowercase letter or underscore followed by ASCII letters, digits and
// underscores.
func IsValidIDSyntax(id string) bool {
	if id == "" {
		return false
	}
	for i, r := range id {
		if i == 0 && !isIDStart(r) {
			return false
		}
		if !isIDChar(r) {
			return false
		}
	}
	return true
}

// IsValidID reports whether id may be assigned to a node. The empty id is
// valid; it clears the id.
func IsValidID(id string) bool {
	if id == "" {
		return true
	}
	return IsValidIDSyntax(id) && !IsIDKeyword(id) && !IsIDToAvoid(id)
}

// camelCase turns a human readable name ("my red box") into an id-like
// stem ("myRedBox"), dropping characters that cannot appear in ids.
func camelCase(name string) string {
	var b strings.Builder
	upperNext := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r) || r == '-' || r == '.':
			upperNext = b.Len() > 0
		case isIDChar(r):
			if upperNext {
				r = unicode.ToUpper(r)
				upperNext = false
			}
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// idIsTaken reports whether id cannot be used for a new node: another node
// has it or the root node has a property of that name.
func (m *Model) idIsTaken(id string) bool {
	if _, taken := m.ids[id]; taken {
		return true
	}
	if root := m.liveNode(m.root); root != nil && root.hasProperty(id) {
		return true
	}
	return false
}

// GenerateNewID derives an unused valid id from prefix ("Red Box" becomes
// "redBox", then "redBox1", "redBox2" ...). fallback is used when prefix
// yields nothing usable, and "element" when fallback does not either.
func (m *Model) GenerateNewID(prefix, fallback string) string {
	stem := camelCase(prefix)
	if !IsValidIDSyntax(stem) {
		stem = camelCase(fallback)
	}
	if !IsValidIDSyntax(stem) {
		stem = "element"
	}

	candidate := stem
	for counter := 1; !IsValidID(candidate) || m.idIsTaken(candidate); counter++ {
		candidate = stem + strconv.Itoa(counter)
	}
	return candidate
}

// ValidateID reports why id cannot be given to a node, wrapping
// ErrInvalidID or ErrDuplicateID. The empty id is always accepted.
func (m *Model) ValidateID(id string) error {
	switch {
	case id == "":
		return nil
	case !IsValidIDSyntax(id):
		return fmt.Errorf("%w: %q is not an identifier", ErrInvalidID, id)
	case IsIDKeyword(id):
		return fmt.Errorf("%w: %q is a reserved word", ErrInvalidID, id)
	case IsIDToAvoid(id):
		return fmt.Errorf("%w: %q shadows a type or property name", ErrInvalidID, id)
	case m.idIsTaken(id):
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	return nil
}
