package graph

import "strings"

type edgeKey struct {
	from string
	to   string
}

// Graph accumulates nodes and deduplicated edges for one indexing run.
//
// Node identity is the file path relative to the indexed root, always
// slash-separated and case-sensitive. Edge identity is the ordered
// (from, to) pair; repeated imports collapse to a single edge.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	labels Labels

	// Membership sets backing the dedup contract. Not serialized.
	nodeSet map[string]bool
	edgeSet map[edgeKey]bool
}

// NewGraph creates an empty graph whose nodes will carry the given labels.
func NewGraph(labels Labels) *Graph {
	return &Graph{
		Nodes:   []Node{},
		Edges:   []Edge{},
		labels:  labels,
		nodeSet: make(map[string]bool),
		edgeSet: make(map[edgeKey]bool),
	}
}

// AddFile registers a file as a node. Registration is idempotent: revisiting
// an already-registered path is a no-op. Returns true if a node was added.
func (g *Graph) AddFile(id string) bool {
	if id == "" || g.nodeSet[id] {
		return false
	}
	g.nodeSet[id] = true
	g.Nodes = append(g.Nodes, Node{
		ID:          id,
		Language:    g.labels.Language,
		Environment: g.labels.Environment,
		Package:     g.labels.Package,
		Folder:      folderOf(id),
		Changed:     false,
	})
	return true
}

// HasNode reports whether a file with the given id has been registered.
func (g *Graph) HasNode(id string) bool {
	return g.nodeSet[id]
}

// AddImport records a directed import edge. The edge is dropped when it
// would be a self-loop, when the target is not a registered node, or when
// the same (from, to) pair was already recorded in this run.
// Returns true if an edge was added.
func (g *Graph) AddImport(from, to string) bool {
	if from == to {
		return false
	}
	if !g.nodeSet[to] {
		return false
	}
	key := edgeKey{from: from, to: to}
	if g.edgeSet[key] {
		return false
	}
	g.edgeSet[key] = true
	g.Edges = append(g.Edges, Edge{From: from, To: to, Kind: EdgeKindImport})
	return true
}

// folderOf returns the coarse grouping label for a node id: the part before
// the first path separator, or the whole id for top-level files.
func folderOf(id string) string {
	if folder, _, ok := strings.Cut(id, "/"); ok {
		return folder
	}
	return id
}
