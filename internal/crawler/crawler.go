package crawler

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// sourceExt is the file extension of indexable Python sources.
const sourceExt = ".py"

// Crawler enumerates candidate source files under a root directory.
type Crawler struct {
	ignored []string
	matcher *ignore.GitIgnore
}

// NewCrawler creates a crawler that skips the standard non-source
// directories plus any extra segments the caller supplies.
func NewCrawler(extraIgnored ...string) *Crawler {
	return &Crawler{
		ignored: append([]string{"__pycache__", ".venv", "venv", ".egg-info"}, extraIgnored...),
	}
}

// UseGitignore additionally filters discovered files through the root's
// .gitignore, when one exists. A missing or unreadable .gitignore is ignored.
func (c *Crawler) UseGitignore(root string) {
	matcher, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return
	}
	c.matcher = matcher
}

// Discover walks root and returns the slash-separated relative paths of all
// source files, lexically sorted and deduplicated. A missing root yields an
// empty sequence, not an error. Unreadable entries are skipped so a partial
// tree still produces a partial listing.
func (c *Crawler) Discover(root string) ([]string, error) {
	files := []string{}

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return files, nil
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Degrade instead of aborting the whole scan.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), sourceExt) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if c.matcher != nil && c.matcher.MatchesPath(rel) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return files, err
	}

	sort.Strings(files)
	return dedup(files), nil
}

// dedup removes adjacent duplicates from a sorted slice.
func dedup(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || sorted[i-1] != s {
			out = append(out, s)
		}
	}
	return out
}
