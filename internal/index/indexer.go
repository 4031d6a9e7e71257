package index

import (
	"path/filepath"
	"strings"

	"intellimap/internal/crawler"
	"intellimap/internal/extractor"
	"intellimap/internal/graph"
	"intellimap/internal/resolver"
)

// Indexer drives discovery, extraction and resolution into a single graph.
type Indexer struct {
	crawler   *crawler.Crawler
	extractor *extractor.Extractor
	labels    graph.Labels
}

// NewIndexer creates an indexer over the given crawler and extractor.
func NewIndexer(c *crawler.Crawler, ext *extractor.Extractor, labels graph.Labels) *Indexer {
	return &Indexer{
		crawler:   c,
		extractor: ext,
		labels:    labels,
	}
}

// BuildGraph runs the full pipeline over root and returns the assembled
// graph. A missing root yields an empty graph. Unreadable or unparsable
// files keep their nodes and contribute no edges; unresolvable imports are
// dropped silently. The run is all-or-nothing: nothing is emitted until
// every discovered file has been processed.
//
// extraPath is an auxiliary search path accepted for interface
// compatibility; it is not consulted by resolution.
func (i *Indexer) BuildGraph(root, extraPath string) (*graph.Graph, error) {
	_ = extraPath

	g := graph.NewGraph(i.labels)

	files, err := i.crawler.Discover(root)
	if err != nil {
		return g, err
	}

	// Register every node up front so edge targets can be validated
	// against the discovered tree rather than raw disk state. A file the
	// crawler excluded must never become an edge target even when the
	// resolver can see it on disk.
	for _, file := range files {
		g.AddFile(file)
	}

	res := resolver.NewResolver(root)
	for _, file := range files {
		extracted, err := i.extractor.ExtractFile(filepath.Join(root, filepath.FromSlash(file)))
		if err != nil {
			// Unreadable or unparsable: the node stays, edges are skipped.
			continue
		}

		for _, name := range extracted.Imports {
			// Cheap approximation of "not a local, indexable module".
			if strings.HasPrefix(name, "_") {
				continue
			}

			target, ok := res.Resolve(name)
			if !ok {
				continue
			}
			g.AddImport(file, target)
		}
	}

	return g, nil
}
