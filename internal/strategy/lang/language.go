package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Language describes how definitions look in one tree-sitter grammar.
type Language struct {
	// Name is the display name of the language
	Name string

	// TreeSitterLang is the tree-sitter language instance
	TreeSitterLang *sitter.Language

	// Extensions maps file extensions to this language
	Extensions []string

	// DefinitionTypes are node types that declare types or classes.
	// Their bodies stay visible under "definitions only".
	DefinitionTypes []string

	// BodyTypes are node types whose bodies hold code (functions, methods).
	BodyTypes []string

	// ClosingLine is true when the last line of a node only closes it
	// (a brace) and should stay visible with the header.
	ClosingLine bool
}

// Classify reports whether nodeType starts a hideable block and whether
// that block is a definition.
func (l *Language) Classify(nodeType string) (hideable, definition bool) {
	for _, t := range l.DefinitionTypes {
		if t == nodeType {
			return true, true
		}
	}
	for _, t := range l.BodyTypes {
		if t == nodeType {
			return true, false
		}
	}
	return false, false
}
