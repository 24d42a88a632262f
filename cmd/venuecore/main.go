// Command venuecore runs the constraint layout solver over a YAML
// scenario file and exports the resulting layout as JSON and/or SVG. The
// scenario's matching and optimizer sections are loaded and validated,
// but this command does not run the transport or optimizer engines.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/venuecore/pkg/config"
	"github.com/dshills/venuecore/pkg/export"
	"github.com/dshills/venuecore/pkg/layout"
)

const version = "0.1.0"

var (
	configPath = flag.String("config", "", "Path to YAML scenario file (required)")
	outputDir  = flag.String("output", ".", "Output directory for generated files")
	format     = flag.String("format", "json", "Export format: json, svg, or all")
	seedFlag   = flag.Uint("seed", 0, "Override the seed from config (0 = use config seed)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("venuecore version %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config flag is required")
		printUsage()
		os.Exit(1)
	}

	validFormats := map[string]bool{"json": true, "svg": true, "all": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: json, svg, all\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *verbose {
		fmt.Printf("Loading scenario from %s\n", *configPath)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *seedFlag != 0 {
		seed := uint32(*seedFlag)
		if *verbose {
			fmt.Printf("Overriding seed from %d to %d\n", cfg.Seed, seed)
		}
		cfg.Seed = seed
	}
	cfg.Solver.Seed = cfg.Seed

	if *verbose {
		fmt.Printf("Using seed: %d\n", cfg.Seed)
		fmt.Printf("Room: %.1fx%.1fm, %d furniture specs\n", cfg.Room.Width, cfg.Room.Depth, len(cfg.Furniture))
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	start := time.Now()
	if *verbose {
		fmt.Println("Solving layout...")
	}

	result, err := layout.Solve(layout.LayoutRequest{
		Room:    cfg.Room,
		Specs:   cfg.Furniture,
		Options: cfg.Solver,
	})
	if err != nil {
		return fmt.Errorf("layout solve failed: %w", err)
	}

	elapsed := time.Since(start)
	if *verbose {
		fmt.Printf("Solve completed in %v\n", elapsed)
		printStats(result)
	}

	baseName := fmt.Sprintf("venuecore_%d", cfg.Seed)

	if *format == "json" || *format == "all" {
		if err := exportJSON(result, baseName); err != nil {
			return err
		}
	}

	if *format == "svg" || *format == "all" {
		if err := exportSVG(cfg.Room, result, baseName); err != nil {
			return err
		}
	}

	fmt.Printf("Solved layout (seed=%d, feasible=%v) in %v\n", cfg.Seed, result.Feasible, elapsed)
	return nil
}

func exportJSON(result layout.LayoutResult, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".json")
	if *verbose {
		fmt.Printf("Exporting JSON to %s\n", filename)
	}
	if err := export.SaveJSONToFile(result, filename); err != nil {
		return fmt.Errorf("failed to export JSON: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func exportSVG(room layout.Room, result layout.LayoutResult, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".svg")
	if *verbose {
		fmt.Printf("Exporting SVG to %s\n", filename)
	}
	opts := export.DefaultSVGOptions()
	opts.Title = fmt.Sprintf("Layout (feasible=%v)", result.Feasible)
	if err := export.SaveSVGToFile(room, result, filename, opts); err != nil {
		return fmt.Errorf("failed to export SVG: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func printStats(result layout.LayoutResult) {
	fmt.Println("\nLayout Statistics:")
	fmt.Printf("  Placed: %d/%d\n", result.Stats.PlacedCount, result.Stats.RequestedCount)
	fmt.Printf("  Weighted score: %.3f\n", result.Scores.Weighted)
	fmt.Printf("  Anneal iterations: %d\n", result.Stats.AnnealIterations)
	fmt.Printf("  Restarts: %d\n", result.Stats.Restarts)
	fmt.Printf("  Backtracks: %d\n", result.Stats.Backtracks)
	if len(result.Violations) > 0 {
		fmt.Printf("  Violations: %d\n", len(result.Violations))
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: venuecore -config <scenario.yaml> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'venuecore -help' for detailed help")
}

func printHelp() {
	fmt.Printf("venuecore version %s\n\n", version)
	fmt.Println("A command-line tool for solving furniture layouts against a venue scenario.")
	fmt.Println("\nUsage:")
	fmt.Println("  venuecore -config <scenario.yaml> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML scenario file")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for generated files (default: current directory)")
	fmt.Println("  -format string")
	fmt.Println("        Export format: json, svg, or all (default: json)")
	fmt.Println("  -seed uint")
	fmt.Println("        Override the seed from config (0 = use config seed) (default: 0)")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  # Solve a layout with default JSON export")
	fmt.Println("  venuecore -config banquet.yaml")
	fmt.Println("\n  # Solve with a custom seed and both export formats")
	fmt.Println("  venuecore -config banquet.yaml -seed 12345 -format all -output ./out")
	fmt.Println("\nScenario File:")
	fmt.Println("  The YAML scenario specifies:")
	fmt.Println("  - Seed (for deterministic generation)")
	fmt.Println("  - Room dimensions, exits, obstacles, and focal point")
	fmt.Println("  - Furniture specs (kind, footprint, count)")
	fmt.Println("  - Solver, matching, and optimizer tunables (each has defaults)")
}
