package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"intellimap/internal/config"
	"intellimap/internal/crawler"
	"intellimap/internal/extractor"
	"intellimap/internal/git"
	"intellimap/internal/graph"
	"intellimap/internal/index"
	"intellimap/internal/storage"
	"intellimap/internal/trace"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "intellimap",
		Short: "Static import-graph indexer for Python source trees",
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "intellimap.yaml", "Path to the config file")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(runsCmd)

	indexCmd.Flags().String("root", "", "Root directory for Python code (overrides config)")
	indexCmd.Flags().String("extra-path", "", "Extra Python path for imports (accepted, not used for resolution)")
	indexCmd.Flags().String("db", "", "Archive the emitted graph into this SQLite database")

	traceCmd.Flags().String("coverage", ".coverage.json", "Path to the coverage.py JSON report")
	traceCmd.Flags().String("out", "", "Output directory for the trace artifact (overrides config)")
	traceCmd.Flags().String("root", "", "Root the trace node ids are made relative to (overrides config)")
	traceCmd.Flags().String("db", "", "Archive the converted trace into this SQLite database")

	runsCmd.Flags().String("db", "", "SQLite database to list runs from")
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the static import graph and print it as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		root := cfg.Project.Root
		if flagRoot, _ := cmd.Flags().GetString("root"); flagRoot != "" {
			root = flagRoot
		}
		extraPath := cfg.Project.ExtraPath
		if flagExtra, _ := cmd.Flags().GetString("extra-path"); flagExtra != "" {
			extraPath = flagExtra
		}

		ext, err := extractor.NewExtractor("python")
		if err != nil {
			log.Fatalf("Failed to create extractor: %v", err)
		}

		cr := crawler.NewCrawler(cfg.Project.Exclude...)
		if cfg.Project.UseGitignore {
			cr.UseGitignore(root)
		}

		idx := index.NewIndexer(cr, ext, graph.Labels{
			Language:    cfg.Labels.Language,
			Environment: cfg.Labels.Environment,
			Package:     cfg.Labels.Package,
		})

		g, err := idx.BuildGraph(root, extraPath)
		if err != nil {
			log.Fatalf("Build failed: %v", err)
		}

		// Stdout carries the graph and nothing else.
		data, err := json.Marshal(g)
		if err != nil {
			log.Fatalf("Failed to encode graph: %v", err)
		}
		fmt.Println(string(data))

		dbPath := cfg.DB
		if flagDB, _ := cmd.Flags().GetString("db"); flagDB != "" {
			dbPath = flagDB
		}
		if dbPath != "" {
			archiveGraph(dbPath, root, g)
		}
	},
}

func archiveGraph(dbPath, root string, g *graph.Graph) {
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	id, err := store.SaveGraph(context.Background(), root, g)
	if err != nil {
		log.Fatalf("Failed to archive graph: %v", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Archived graph as run %d (%d nodes, %d edges)\n", id, len(g.Nodes), len(g.Edges))
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Extract imports and symbols from a single file read on stdin",
	Run: func(cmd *cobra.Command, args []string) {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("Failed to read stdin: %v", err)
		}

		ext, err := extractor.NewExtractor("python")
		if err != nil {
			log.Fatalf("Failed to create extractor: %v", err)
		}

		report := ext.Analyze(src)
		if report.Error != "" {
			// Diagnostic goes to the side channel; the result stays
			// well-formed and the process exits normally.
			fmt.Fprintf(os.Stderr, "Python syntax error: %s\n", report.Error)
		}

		data, err := json.Marshal(report)
		if err != nil {
			log.Fatalf("Failed to encode result: %v", err)
		}
		fmt.Println(string(data))
	},
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Convert a coverage.py report into a runtime trace artifact",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		coveragePath, _ := cmd.Flags().GetString("coverage")
		outDir := cfg.Trace.Dir
		if flagOut, _ := cmd.Flags().GetString("out"); flagOut != "" {
			outDir = flagOut
		}
		root := cfg.Project.Root
		if flagRoot, _ := cmd.Flags().GetString("root"); flagRoot != "" {
			root = flagRoot
		}
		// Coverage reports usually carry absolute paths; relativize
		// against the absolute root so ids line up with the static graph.
		if absRoot, err := filepath.Abs(root); err == nil {
			root = absRoot
		}

		fmt.Println("🔬 Converting coverage data to a runtime trace...")

		report, err := trace.LoadReport(coveragePath)
		if err != nil {
			fmt.Printf("❌ No usable coverage data at %s: %v\n", coveragePath, err)
			fmt.Println("   Run: coverage run -m pytest")
			fmt.Println("   Then: coverage json")
			return
		}

		branch, commit := git.Describe()
		tr := trace.Convert(report, root, time.Now(), branch, commit, cfg.Trace.Environment)

		path, err := tr.Write(outDir)
		if err != nil {
			log.Fatalf("Failed to write trace: %v", err)
		}

		fmt.Printf("✅ Converted coverage data for %d files\n", len(tr.Nodes))
		fmt.Printf("📁 Saved to: %s\n", path)

		dbPath := cfg.DB
		if flagDB, _ := cmd.Flags().GetString("db"); flagDB != "" {
			dbPath = flagDB
		}
		if dbPath != "" {
			store, err := storage.NewSQLiteStore(dbPath)
			if err != nil {
				log.Fatalf("Failed to open database: %v", err)
			}
			defer store.Close()

			id, err := store.SaveTrace(context.Background(), path, tr)
			if err != nil {
				log.Fatalf("Failed to archive trace: %v", err)
			}
			fmt.Printf("💾 Archived trace as run %d\n", id)
		}
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived graph and trace runs",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		dbPath := cfg.DB
		if flagDB, _ := cmd.Flags().GetString("db"); flagDB != "" {
			dbPath = flagDB
		}
		if dbPath == "" {
			log.Fatal("No database configured (set db in config or pass --db)")
		}

		store, err := storage.NewSQLiteStore(dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer store.Close()

		runs, err := store.ListRuns(context.Background())
		if err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return
		}

		for _, r := range runs {
			switch r.Kind {
			case "trace":
				fmt.Printf("#%d  %s  trace  %d files  %s\n", r.ID, r.CreatedAt.Format(time.DateTime), r.Nodes, r.Artifact)
			default:
				fmt.Printf("#%d  %s  graph  %d nodes, %d edges  root=%s\n", r.ID, r.CreatedAt.Format(time.DateTime), r.Nodes, r.Edges, r.Root)
			}
		}
	},
}
