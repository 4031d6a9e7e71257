package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrParse marks source that could not be parsed into a usable syntax tree.
// Callers are expected to degrade: the file keeps its node in the graph,
// only its imports are skipped.
var ErrParse = errors.New("unparsable source")

// Result holds what one file's syntax tree contributed.
type Result struct {
	// Imports are dotted module names in document order, duplicates kept.
	// Deduplication is the graph's job, not the extractor's.
	Imports []string
	// Symbols are function and class definition names in document order,
	// nested definitions included.
	Symbols []string
}

// Extractor parses source files of a single language.
type Extractor struct {
	lang *sitter.Language
}

// NewExtractor creates an extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	switch lang {
	case "python":
		return &Extractor{lang: python.GetLanguage()}, nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// ExtractFile reads and parses a single source file.
func (e *Extractor) ExtractFile(path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return e.ExtractSource(src)
}

// ExtractSource parses raw source text. Malformed source returns ErrParse;
// everything the tree-sitter grammar accepts yields a Result, even when the
// file imports nothing.
func (e *Extractor) ExtractSource(src []byte) (*Result, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(e.lang)

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: %s", ErrParse, describeError(root))
	}

	res := &Result{}
	collect(root, src, res)
	return res, nil
}

// describeError locates the first broken node so diagnostics can point at a
// line instead of just saying "syntax error".
func describeError(root *sitter.Node) string {
	if n := firstErrorNode(root); n != nil {
		pt := n.StartPoint()
		return fmt.Sprintf("syntax error at line %d, column %d", pt.Row+1, pt.Column+1)
	}
	return "syntax error"
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child != nil && child.HasError() {
			return firstErrorNode(child)
		}
	}
	if n.HasError() {
		return n
	}
	return nil
}
