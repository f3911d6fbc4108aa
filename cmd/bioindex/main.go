// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/poiesic/bioindex"
	"github.com/poiesic/bioindex/ai"
	"github.com/poiesic/bioindex/core"
	"github.com/poiesic/bioindex/ingestion"
	"github.com/poiesic/bioindex/reembed"
	"github.com/poiesic/bioindex/storage/rawjson"
	"github.com/urfave/cli/v2"
)

func main() {
	// Optional .env for embedding service settings.
	godotenv.Load()

	app := &cli.App{
		Name:  "bioindex",
		Usage: "Semantic retrieval index for biographical text about public figures",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest raw scraped JSON records into the index",
				Action: ingestCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:     "src",
						Aliases:  []string{"s"},
						Usage:    "Path to a raw record JSON file or a directory of them",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for concurrent embedding",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the index by semantic similarity",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags:     append(databaseFlags(), searchFlags()...),
			},
			{
				Name:      "keyword",
				Usage:     "Search the index by keyword match",
				ArgsUsage: "QUERY",
				Action:    keywordCommand,
				Flags:     append(databaseFlags(), searchFlags()...),
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embeddings for all indexed entries",
				Action: reembedCommand,
				Flags: append(databaseFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entries to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N entries",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum embedding attempts per batch",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"BIOINDEX_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"BIOINDEX_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "Credential for hosted embedding services",
			EnvVars: []string{"BIOINDEX_API_TOKEN"},
		},
	}
}

func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"k"},
			Usage:   "Maximum number of results",
			Value:   5,
		},
	}
}

func openDatabase(c *cli.Context) (*bioindex.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIToken(c.String("api-token")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := bioindex.NewDatabase(c.String("db"), bioindex.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	src := c.String("src")
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	loader := rawjson.NewLoader()
	var raws []core.RawRecord
	if info.IsDir() {
		raws, err = loader.LoadDir(src)
		if err != nil {
			return fmt.Errorf("failed to load records: %w", err)
		}
	} else {
		raw, err := loader.LoadFile(src)
		if err != nil {
			return fmt.Errorf("failed to load record: %w", err)
		}
		raws = []core.RawRecord{raw}
	}

	pipeline, err := db.NewIngestionPipeline(pipelineOptions(c)...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	records, skipped, err := pipeline.IngestAll(ctx, raws)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	pipeline.Wait()

	fmt.Printf("Ingested %d records (%d skipped)\n", len(records), skipped)
	return nil
}

func searchCommand(c *cli.Context) error {
	return runSearch(c, false)
}

func keywordCommand(c *cli.Context) error {
	return runSearch(c, true)
}

func runSearch(c *cli.Context, keyword bool) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	ctx := context.Background()
	var results []*core.SearchResult
	if keyword {
		results, err = searcher.KeywordSearch(ctx, query, c.Int("top"))
	} else {
		results, err = searcher.Search(ctx, query, c.Int("top"))
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printResults(query, results)
	return nil
}

func printResults(query string, results []*core.SearchResult) {
	if len(results) == 0 {
		fmt.Printf("No results for %q\n", query)
		return
	}

	heading := color.New(color.FgCyan, color.Bold)
	meta := color.New(color.FgYellow)
	score := color.New(color.FgGreen)

	fmt.Printf("Found %d results for %q\n\n", len(results), query)
	for i, result := range results {
		heading.Printf("%d. %s", i+1, result.Politician)
		score.Printf("  [%.3f]\n", result.Relevance)

		label := result.Type
		if result.Title != "" {
			label += ": " + result.Title
		}
		meta.Printf("   %s\n", label)

		fmt.Printf("   %s\n", result.Content)
		if result.Source != "" {
			fmt.Printf("   %s\n", result.Source)
		}
		fmt.Println()
	}
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	config := reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := db.NewReembedder(config)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if _, err := reembedder.Run(ctx, os.Stderr); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func pipelineOptions(c *cli.Context) []ingestion.Option {
	var opts []ingestion.Option
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}
	return opts
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
