package graph

// EdgeKindImport marks a static "file A imports file B" relationship.
const EdgeKindImport = "import"

// Labels are the fixed classification tags stamped onto every node of one
// indexing run. They describe the indexer instance, not individual files.
type Labels struct {
	Language    string
	Environment string
	Package     string
}

// Node represents one indexed source file.
type Node struct {
	ID          string `json:"id"`
	Language    string `json:"language"`
	Environment string `json:"environment"`
	Package     string `json:"package"`
	Folder      string `json:"folder"`
	Changed     bool   `json:"changed"`
}

// Edge represents a directed import relationship between two nodes.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}
