package resolver

import (
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// packageEntry is the file that marks a directory as an importable package
// and serves as the resolution target for a directory-style import.
const packageEntry = "__init__.py"

// cacheSize bounds the per-run memoization cache. Real trees rarely have
// more than a few thousand distinct import names.
const cacheSize = 4096

// Resolver maps dotted import names to files that exist under a root.
//
// Two strategies are tried in order: the direct module file (a.b -> a/b.py)
// and the package entry file (a.b -> a/b/__init__.py). Relative-import
// syntax is not resolved; names arrive already folded to plain dotted form
// or they simply fail to resolve. Lookups are case-sensitive and returned
// paths always use forward slashes.
type Resolver struct {
	root  string
	cache *lru.Cache[string, string]
}

// NewResolver creates a resolver rooted at the given directory.
func NewResolver(root string) *Resolver {
	// Cache construction only fails for a non-positive size.
	cache, _ := lru.New[string, string](cacheSize)
	return &Resolver{root: root, cache: cache}
}

// Resolve maps an import name to a root-relative file path. The second
// return value is false when neither candidate exists. Results, including
// misses, are memoized for the lifetime of the resolver.
func (r *Resolver) Resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	if cached, ok := r.cache.Get(name); ok {
		return cached, cached != ""
	}

	resolved := ""
	base := strings.ReplaceAll(name, ".", "/")
	for _, candidate := range []string{base + ".py", base + "/" + packageEntry} {
		if r.isFile(candidate) {
			resolved = candidate
			break
		}
	}

	// An empty value memoizes the miss.
	r.cache.Add(name, resolved)
	return resolved, resolved != ""
}

func (r *Resolver) isFile(rel string) bool {
	info, err := os.Stat(filepath.Join(r.root, filepath.FromSlash(rel)))
	return err == nil && info.Mode().IsRegular()
}
