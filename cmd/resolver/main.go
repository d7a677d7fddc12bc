package main

import (
	"context"
	"log"
	"os"
	"runtime/pprof"

	"github.com/listinglens/resolver/config"
	"github.com/listinglens/resolver/internal/infrastructure/catalog"
	"github.com/listinglens/resolver/internal/infrastructure/listings"
	"github.com/listinglens/resolver/internal/infrastructure/report"
	"github.com/listinglens/resolver/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ListingLens Resolver v1.0.0")
	log.Printf("Products: %s", cfg.Input.ProductsPath)
	log.Printf("Listings: %s", cfg.Input.ListingsPath)
	log.Printf("Results: %s", cfg.Output.ResultsPath)
	log.Printf("Matching: chunk=%d, workers=%d, debug=%v",
		cfg.Matching.ChunkSize,
		cfg.Matching.Workers,
		cfg.Matching.EnableDebugLogging)

	// Optional CPU profiling
	if cfg.Profile.CPUPath != "" {
		profileFile, err := os.Create(cfg.Profile.CPUPath)
		if err != nil {
			log.Fatalf("Failed to create CPU profile %s: %v", cfg.Profile.CPUPath, err)
		}
		defer profileFile.Close()
		if err := pprof.StartCPUProfile(profileFile); err != nil {
			log.Fatalf("Failed to start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled: %s", cfg.Profile.CPUPath)
	}

	// Load the catalog and bind the matching pipeline to it
	products, err := catalog.LoadProducts(cfg.Input.ProductsPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	pipeline := usecase.NewMatchPipeline(products, cfg.Matching.EnableDebugLogging)
	aggregator := usecase.NewAggregator(pipeline, cfg.Matching.ChunkSize, cfg.Matching.Workers)

	// Stream the listings through the aggregator
	source, err := listings.Open(cfg.Input.ListingsPath)
	if err != nil {
		log.Fatalf("Failed to open listings: %v", err)
	}
	defer source.Close()

	groups, summary, err := aggregator.Run(context.Background(), source)
	if err != nil {
		log.Fatalf("Matching failed: %v", err)
	}

	// Write results
	out, err := os.Create(cfg.Output.ResultsPath)
	if err != nil {
		log.Fatalf("Failed to create results file %s: %v", cfg.Output.ResultsPath, err)
	}
	defer out.Close()

	if err := report.NewSink(out).WriteGroups(groups); err != nil {
		log.Fatalf("Failed to write results: %v", err)
	}

	log.Printf("Done: %s", report.FormatSummary(summary))
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
