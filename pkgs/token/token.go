// Package token defines the token and attribute value types shared by the
// lexer, parser, and renderer. It has no dependencies on any other package
// in this module.
package token

import "fmt"

// Kind identifies the category of a token (and, reused, of an AST node).
type Kind int

const (
	TAG Kind = iota
	CLASS
	ID
	ATTRIBUTE
	TEXT
	INDENTATION // reserved: never emitted by the lexer, depth is a per-token field instead
	DOT
	PIPE
	COMMENT
	BLOCK_COMMENT
	INTERPOLATION
	CODE
	DOCTYPE
	INCLUDE
	EXTENDS
	MIXIN
	CALL
	EOF
)

var kindNames = [...]string{
	TAG:           "TAG",
	CLASS:         "CLASS",
	ID:            "ID",
	ATTRIBUTE:     "ATTRIBUTE",
	TEXT:          "TEXT",
	INDENTATION:   "INDENTATION",
	DOT:           "DOT",
	PIPE:          "PIPE",
	COMMENT:       "COMMENT",
	BLOCK_COMMENT: "BLOCK_COMMENT",
	INTERPOLATION: "INTERPOLATION",
	CODE:          "CODE",
	DOCTYPE:       "DOCTYPE",
	INCLUDE:       "INCLUDE",
	EXTENDS:       "EXTENDS",
	MIXIN:         "MIXIN",
	CALL:          "CALL",
	EOF:           "EOF",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is an immutable record emitted by the lexer. Tokens of kind TAG may
// later acquire an attribute list on the AST node built from them; tokens
// themselves never carry attributes.
type Token struct {
	Kind   Kind
	Value  string
	Line   int // 1-based
	Column int // 0-based
	Depth  int // nonnegative
}

// Position formats a token's location for error reporting and debug dumps.
func (t Token) Position() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

func (t Token) String() string {
	if t.Value == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
}

// AttrKind classifies an Attribute's origin/shape.
type AttrKind int

const (
	AttrString AttrKind = iota
	AttrBoolean
	AttrExpression
	AttrClass
	AttrID
)

var attrKindNames = [...]string{
	AttrString:     "string",
	AttrBoolean:    "boolean",
	AttrExpression: "expression",
	AttrClass:      "class",
	AttrID:         "id",
}

func (k AttrKind) String() string {
	if int(k) >= 0 && int(k) < len(attrKindNames) {
		return attrKindNames[k]
	}
	return fmt.Sprintf("AttrKind(%d)", int(k))
}

// Attribute is a single name/value/kind triple parsed out of a `(...)`
// attribute list. Value may be empty for boolean attributes.
type Attribute struct {
	Name  string
	Value string
	Kind  AttrKind
}
