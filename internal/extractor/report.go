package extractor

import "sort"

// Report is the editor-facing summary of a single file: every imported
// module name and every defined symbol, sorted and deduplicated. On parse
// failure both lists stay empty and Error carries the diagnostic.
type Report struct {
	Imports []string `json:"imports"`
	Symbols []string `json:"symbols"`
	Error   string   `json:"error,omitempty"`
}

// Analyze produces a Report for raw source text. It never fails: malformed
// input yields an empty-but-well-formed Report with Error set.
func (e *Extractor) Analyze(src []byte) Report {
	res, err := e.ExtractSource(src)
	if err != nil {
		return Report{Imports: []string{}, Symbols: []string{}, Error: err.Error()}
	}
	return Report{
		Imports: sortedSet(res.Imports),
		Symbols: sortedSet(res.Symbols),
	}
}

func sortedSet(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
