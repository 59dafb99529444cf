package strategy

import (
	"context"
	"fmt"
	"sort"

	"github.com/bethropolis/veil/internal/buffer"
	"github.com/bethropolis/veil/internal/hiding"
	"github.com/bethropolis/veil/internal/logger"
	"github.com/bethropolis/veil/internal/strategy/lang"
	sitter "github.com/smacker/go-tree-sitter"
)

// Definitions hides the inner lines of functions and type declarations
// found by tree-sitter. Type declarations are marked as definitions.
type Definitions struct {
	language *lang.Language
	parser   *sitter.Parser
}

// NewDefinitions picks the grammar registered for filePath's extension.
func NewDefinitions(filePath string) (*Definitions, error) {
	lang.RegisterBuiltin()
	l := lang.GetForFile(filePath)
	if l == nil {
		return nil, fmt.Errorf("no grammar registered for %q", filePath)
	}
	return NewDefinitionsFor(l), nil
}

// NewDefinitionsFor uses the given language.
func NewDefinitionsFor(l *lang.Language) *Definitions {
	parser := sitter.NewParser()
	parser.SetLanguage(l.TreeSitterLang)
	return &Definitions{language: l, parser: parser}
}

func (d *Definitions) Name() string {
	return "definitions (" + d.language.Name + ")"
}

// Candidates parses doc and returns one candidate per multi-line block.
// The first syntax error bounds which existing sections may be dropped.
func (d *Definitions) Candidates(ctx context.Context, doc *buffer.Document) ([]hiding.NewHiding, int, error) {
	src := doc.Bytes()
	tree, err := d.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, -1, fmt.Errorf("parsing %s source: %w", d.language.Name, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	firstError := -1
	if root.HasError() {
		firstError = firstErrorOffset(root)
	}

	var candidates []hiding.NewHiding
	d.collect(root, doc, &candidates)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].StartOffset < candidates[j].StartOffset
	})
	logger.DebugTagf("hiding", "%s: %d blocks, first error at %d", d.Name(), len(candidates), firstError)
	return candidates, firstError, nil
}

func (d *Definitions) collect(n *sitter.Node, doc *buffer.Document, out *[]hiding.NewHiding) {
	if hideable, definition := d.language.Classify(n.Type()); hideable {
		if h, ok := d.innerLines(n, doc, definition); ok {
			*out = append(*out, h)
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d.collect(n.NamedChild(i), doc, out)
	}
}

// innerLines covers the lines after the node's header line, leaving a
// closing line visible when the language has one.
func (d *Definitions) innerLines(n *sitter.Node, doc *buffer.Document, definition bool) (hiding.NewHiding, bool) {
	firstLine := int(n.StartPoint().Row) + 2
	lastLine := int(n.EndPoint().Row) + 1
	if d.language.ClosingLine {
		lastLine--
	}
	if firstLine > lastLine {
		return hiding.NewHiding{}, false
	}
	first, err := doc.LineByNumber(firstLine)
	if err != nil {
		return hiding.NewHiding{}, false
	}
	last, err := doc.LineByNumber(lastLine)
	if err != nil {
		return hiding.NewHiding{}, false
	}
	return hiding.NewHiding{StartOffset: first.Offset, EndOffset: last.EndOffset(), IsDefinition: definition}, true
}

// firstErrorOffset returns the start of the first ERROR or missing node.
func firstErrorOffset(n *sitter.Node) int {
	if n.Type() == "ERROR" || n.IsMissing() {
		return int(n.StartByte())
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.HasError() {
			if off := firstErrorOffset(c); off >= 0 {
				return off
			}
		}
	}
	return -1
}
