package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"intellimap/internal/graph"
)

// Metadata describes one recorded run of the instrumented code.
type Metadata struct {
	Timestamp   int64  `json:"timestamp"`
	Branch      string `json:"branch"`
	Commit      string `json:"commit"`
	RunID       string `json:"runId"`
	Environment string `json:"environment"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Node carries per-file runtime measurements. Its ID uses the same
// root-relative path convention as the static graph: downstream consumers
// join runtime nodes to static nodes by id equality, and a deviation here
// breaks that join silently.
type Node struct {
	ID             string  `json:"id"`
	ExecutionCount int     `json:"executionCount"`
	TotalTime      float64 `json:"totalTime"`
	Coverage       float64 `json:"coverage"`
}

// Trace is the runtime artifact consumed alongside the static graph.
// Edges stay empty; they are inferred from the static graph downstream.
type Trace struct {
	Metadata Metadata     `json:"metadata"`
	Nodes    []Node       `json:"nodes"`
	Edges    []graph.Edge `json:"edges"`
}

// CoverageSummary mirrors the per-file summary block of a coverage.py
// JSON report.
type CoverageSummary struct {
	NumStatements int `json:"num_statements"`
	CoveredLines  int `json:"covered_lines"`
}

// FileCoverage mirrors one file entry of a coverage.py JSON report.
type FileCoverage struct {
	ExecutedLines []int           `json:"executed_lines"`
	Summary       CoverageSummary `json:"summary"`
}

// CoverageReport is the subset of a coverage.py JSON report the converter
// consumes.
type CoverageReport struct {
	Files map[string]FileCoverage `json:"files"`
}

// LoadReport reads a coverage.py JSON report from disk.
func LoadReport(path string) (*CoverageReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coverage report: %w", err)
	}
	var report CoverageReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse coverage report: %w", err)
	}
	return &report, nil
}

// Convert turns a coverage report into a runtime trace. File paths are
// rewritten relative to root (when possible) so trace node ids line up with
// static graph node ids. Output order is deterministic: nodes are sorted
// by id.
func Convert(report *CoverageReport, root string, now time.Time, branch, commit, environment string) *Trace {
	nodes := make([]Node, 0, len(report.Files))

	for path, file := range report.Files {
		executed := len(file.ExecutedLines)

		coverage := 0.0
		if file.Summary.NumStatements > 0 {
			coverage = float64(file.Summary.CoveredLines) / float64(file.Summary.NumStatements) * 100
		}

		nodes = append(nodes, Node{
			ID:             relativeID(root, path),
			ExecutionCount: executed,
			// Rough estimate; coverage data has no timing information.
			TotalTime: float64(executed) * 0.01,
			Coverage:  coverage,
		})
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	return &Trace{
		Metadata: Metadata{
			Timestamp:   now.UnixMilli(),
			Branch:      branch,
			Commit:      commit,
			RunID:       fmt.Sprintf("coverage-%d", now.Unix()),
			Environment: environment,
			Description: "coverage.py data",
			Source:      "coverage.py",
		},
		Nodes: nodes,
		Edges: []graph.Edge{},
	}
}

// Write saves the trace under dir using the timestamp-based naming
// convention and returns the artifact path.
func (t *Trace) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create trace directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("trace-%d.json", t.Metadata.Timestamp))
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write trace: %w", err)
	}
	return path, nil
}

// relativeID maps an absolute coverage path onto the static graph's
// root-relative id convention. Paths outside root are kept as-is.
func relativeID(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
