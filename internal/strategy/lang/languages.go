package lang

import (
	"sync"

	"github.com/bethropolis/veil/internal/logger"

	gosrc "github.com/smacker/go-tree-sitter/golang"
	jssrc "github.com/smacker/go-tree-sitter/javascript"
	pythonsrc "github.com/smacker/go-tree-sitter/python"
	rustsrc "github.com/smacker/go-tree-sitter/rust"
)

var builtinOnce sync.Once

// RegisterBuiltin registers the grammars bundled with veil. It is safe to
// call more than once.
func RegisterBuiltin() {
	builtinOnce.Do(func() {
		Register(&Language{
			Name:            "Go",
			TreeSitterLang:  gosrc.GetLanguage(),
			Extensions:      []string{".go"},
			DefinitionTypes: []string{"type_declaration"},
			BodyTypes:       []string{"function_declaration", "method_declaration", "func_literal"},
			ClosingLine:     true,
		})
		Register(&Language{
			Name:            "Python",
			TreeSitterLang:  pythonsrc.GetLanguage(),
			Extensions:      []string{".py", ".pyw"},
			DefinitionTypes: []string{"class_definition"},
			BodyTypes:       []string{"function_definition"},
		})
		Register(&Language{
			Name:            "JavaScript",
			TreeSitterLang:  jssrc.GetLanguage(),
			Extensions:      []string{".js", ".mjs", ".cjs"},
			DefinitionTypes: []string{"class_declaration"},
			BodyTypes:       []string{"function_declaration", "method_definition", "arrow_function", "function"},
			ClosingLine:     true,
		})
		Register(&Language{
			Name:            "Rust",
			TreeSitterLang:  rustsrc.GetLanguage(),
			Extensions:      []string{".rs"},
			DefinitionTypes: []string{"struct_item", "enum_item", "trait_item", "impl_item"},
			BodyTypes:       []string{"function_item"},
			ClosingLine:     true,
		})
		logger.Debugf("Registered %d builtin languages", len(GetAll()))
	})
}
