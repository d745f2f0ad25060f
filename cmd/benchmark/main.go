// ABOUTME: Command-line runner for the portfolio matching benchmark
// ABOUTME: Embeds scenario texts with OpenAI, ranks projects, and writes JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/harper/proposal-forge/benchmarks/matching"
	"github.com/harper/proposal-forge/internal/app"
	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/embedcache"
	"github.com/harper/proposal-forge/internal/llm"
	"github.com/harper/proposal-forge/internal/logging"
)

func main() {
	scenarioID := flag.String("scenario", "", "Run one scenario (mixed, near-misses). If empty, runs all.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	topK := flag.Int("k", 2, "Projects kept per job")
	threshold := flag.Float64("threshold", 0, "Minimum similarity score")
	noCache := flag.Bool("no-cache", false, "Skip the embedding cache")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	logger := logging.New(os.Stderr, logging.LevelForFlags(*verbose, false, "info"))

	cfg, err := app.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	if cfg.OpenAIKey == "" {
		logger.Fatal("OPENAI_API_KEY environment variable is required for benchmarks")
	}

	client, err := llm.NewOpenAIClientWithConfig(llm.ConfigFrom(cfg))
	if err != nil {
		logger.Fatal("failed to create OpenAI client", "err", err)
	}

	var embedder core.Embedder = client
	if !*noCache {
		cache, err := embedcache.Open(cfg.EmbedCachePath, client, client.EmbeddingModel())
		if err != nil {
			logger.Warn("embedding cache unavailable", "err", err)
		} else {
			defer func() { _ = cache.Close() }()
			embedder = cache
		}
	}

	scenarios := matching.DefaultScenarios()
	if *scenarioID != "" {
		s, ok := matching.ScenarioByID(*scenarioID)
		if !ok {
			logger.Fatal("unknown scenario", "id", *scenarioID)
		}
		scenarios = []matching.Scenario{s}
	}

	fmt.Println("========================================")
	fmt.Println("Portfolio Matching Benchmark")
	fmt.Println("========================================")

	runner := matching.NewRunner(embedder, *topK, *threshold, logger)
	results, err := runner.RunAll(context.Background(), scenarios)
	if err != nil {
		logger.Fatal("benchmark failed", "err", err)
	}

	for _, r := range results {
		fmt.Printf("\n%s: %s\n", r.ScenarioID, r.ScenarioName)
		fmt.Printf("  Precision@%d: %.2f\n", r.K, r.MeanPrecision)
		fmt.Printf("  Recall@%d:    %.2f\n", r.K, r.MeanRecall)
		fmt.Printf("  MRR:          %.2f\n", r.MRR)
		if r.Skipped > 0 {
			fmt.Printf("  Skipped:      %d\n", r.Skipped)
		}
		fmt.Printf("  Status:       %s\n", r.Status)
	}

	summary := matching.Summarize(results)
	fmt.Println("\n========================================")
	fmt.Printf("Total Scenarios: %d\n", summary.Total)
	fmt.Printf("Passed: %d\n", summary.Passed)
	fmt.Printf("Failed: %d\n", summary.Failed)
	fmt.Println("========================================")

	if err := matching.ExportResults(summary, *outputPath); err != nil {
		logger.Fatal("failed to export results", "err", err)
	}
	fmt.Printf("✓ Results exported to: %s\n", *outputPath)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
