package trace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(root string) *CoverageReport {
	return &CoverageReport{
		Files: map[string]FileCoverage{
			filepath.Join(root, "api", "server.py"): {
				ExecutedLines: []int{1, 2, 3, 7},
				Summary:       CoverageSummary{NumStatements: 8, CoveredLines: 4},
			},
			filepath.Join(root, "main.py"): {
				ExecutedLines: []int{1},
				Summary:       CoverageSummary{NumStatements: 0, CoveredLines: 0},
			},
		},
	}
}

func TestConvert(t *testing.T) {
	root := t.TempDir()
	now := time.UnixMilli(1700000000000)

	tr := Convert(sampleReport(root), root, now, "main", "abc1234", "test")

	t.Run("Metadata", func(t *testing.T) {
		assert.Equal(t, int64(1700000000000), tr.Metadata.Timestamp)
		assert.Equal(t, "main", tr.Metadata.Branch)
		assert.Equal(t, "abc1234", tr.Metadata.Commit)
		assert.Equal(t, "coverage-1700000000", tr.Metadata.RunID)
		assert.Equal(t, "test", tr.Metadata.Environment)
		assert.Equal(t, "coverage.py", tr.Metadata.Source)
	})

	t.Run("Node ids match the static graph convention", func(t *testing.T) {
		require.Len(t, tr.Nodes, 2)
		assert.Equal(t, "api/server.py", tr.Nodes[0].ID, "relative, slash-separated, sorted")
		assert.Equal(t, "main.py", tr.Nodes[1].ID)
	})

	t.Run("Measurements", func(t *testing.T) {
		server := tr.Nodes[0]
		assert.Equal(t, 4, server.ExecutionCount)
		assert.InDelta(t, 0.04, server.TotalTime, 1e-9)
		assert.InDelta(t, 50.0, server.Coverage, 1e-9)

		main := tr.Nodes[1]
		assert.Zero(t, main.Coverage, "zero statements must not divide by zero")
	})

	t.Run("Edges are empty, not null", func(t *testing.T) {
		data, err := json.Marshal(tr)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"edges":[]`)
	})
}

func TestTrace_Write(t *testing.T) {
	root := t.TempDir()
	now := time.UnixMilli(1700000000000)
	tr := Convert(sampleReport(root), root, now, "main", "abc1234", "test")

	outDir := filepath.Join(t.TempDir(), "runtime")
	path, err := tr.Write(outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "trace-1700000000000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Trace
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, tr.Metadata, loaded.Metadata)
	assert.Equal(t, tr.Nodes, loaded.Nodes)
}

func TestLoadReport(t *testing.T) {
	dir := t.TempDir()

	t.Run("Valid report", func(t *testing.T) {
		path := filepath.Join(dir, ".coverage.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"files":{"a.py":{"executed_lines":[1,2],"summary":{"num_statements":2,"covered_lines":2}}}}`), 0o644))

		report, err := LoadReport(path)
		require.NoError(t, err)
		require.Len(t, report.Files, 1)
		assert.Equal(t, 2, report.Files["a.py"].Summary.CoveredLines)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadReport(filepath.Join(dir, "absent.json"))
		assert.Error(t, err)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := LoadReport(path)
		assert.Error(t, err)
	})
}
