package extractor

import sitter "github.com/smacker/go-tree-sitter"

// Python grammar node types the walk dispatches on. Every other node type
// is traversed for nested statements (imports inside functions count).
const (
	nodeImport     = "import_statement"
	nodeImportFrom = "import_from_statement"
	nodeRelative   = "relative_import"
	nodeDotted     = "dotted_name"
	nodeAliased    = "aliased_import"
	nodeFunction   = "function_definition"
	nodeClass      = "class_definition"
)

func collect(n *sitter.Node, src []byte, res *Result) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case nodeImport:
			collectImport(child, src, res)
		case nodeImportFrom:
			collectImportFrom(child, src, res)
		case nodeFunction, nodeClass:
			if name := child.ChildByFieldName("name"); name != nil {
				res.Symbols = append(res.Symbols, name.Content(src))
			}
			collect(child, src, res)
		default:
			collect(child, src, res)
		}
	}
}

// collectImport handles "import a.b" and "import a.b as c". The recorded
// name is always the real dotted module name, never the alias.
func collectImport(n *sitter.Node, src []byte, res *Result) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case nodeDotted:
			res.Imports = append(res.Imports, child.Content(src))
		case nodeAliased:
			if name := dottedChild(child, src); name != "" {
				res.Imports = append(res.Imports, name)
			}
		}
	}
}

// collectImportFrom handles "from a.b import c". The recorded name is the
// module a.b; imported members are not tracked individually. Relative
// imports drop their leading dots, so "from .routes import x" contributes
// "routes" and a bare "from . import x" contributes nothing.
func collectImportFrom(n *sitter.Node, src []byte, res *Result) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "import":
			// Names after the keyword are members, not modules.
			return
		case nodeDotted:
			res.Imports = append(res.Imports, child.Content(src))
		case nodeRelative:
			if name := dottedChild(child, src); name != "" {
				res.Imports = append(res.Imports, name)
			}
		}
	}
}

func dottedChild(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil && child.Type() == nodeDotted {
			return child.Content(src)
		}
	}
	return ""
}
