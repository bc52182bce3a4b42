// Copyright 2026 Quarry Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/quarryhq/quarry/ai"
	"github.com/quarryhq/quarry/ai/openai"
	"github.com/quarryhq/quarry/cache"
	"github.com/quarryhq/quarry/chunk"
	"github.com/quarryhq/quarry/core"
	"github.com/quarryhq/quarry/enrich"
	"github.com/quarryhq/quarry/pipeline"
	"github.com/quarryhq/quarry/query"
	"github.com/quarryhq/quarry/vectorstore"
	"github.com/quarryhq/quarry/vectorstore/chromem"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "quarry",
		Usage: "Index a code and documentation corpus and answer questions against it",
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
				Name:   "index",
				Usage:  "Index source files and markdown under a directory",
				Action: indexCommand,
				Flags:  append(storeFlags(), indexFlags()...),
			},
			{
				Name:      "query",
				Usage:     "Answer a question against the indexed corpus",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of context passages to retrieve",
						Value: query.DefaultTopK,
					},
				),
			},
			{
				Name:      "eval",
				Usage:     "Index, answer a question set, and write an evaluation report",
				ArgsUsage: "[question ...]",
				Action:    evalCommand,
				Flags: append(append(storeFlags(), indexFlags()...),
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Dataset JSON file with questions and optional ground truths",
					},
					&cli.BoolFlag{
						Name:  "record-ground-truth",
						Usage: "Record generated answers as ground truth",
					},
					&cli.IntFlag{
						Name:  "generate-questions",
						Usage: "Generate N corpus-grounded questions instead of evaluating",
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Output file for the evaluation report",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "force-recreate",
						Usage: "Delete the collection before indexing",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of context passages to retrieve",
						Value: query.DefaultTopK,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "db",
			Usage: "Vector store persistence directory (empty for in-memory)",
		},
		&cli.StringFlag{
			Name:  "collection",
			Usage: "Vector store collection name",
			Value: "quarry",
		},
	}
}

func indexFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "language",
			Aliases:  []string{"g"},
			Usage:    "Language of the code to index",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "path",
			Aliases: []string{"p"},
			Usage:   "Path to the corpus to index",
			Value:   "./",
		},
		&cli.StringFlag{
			Name:  "cache",
			Usage: "Dedup cache directory (empty disables deduplication)",
		},
		&cli.IntFlag{
			Name:  "chunk-min",
			Usage: "Minimum chunk size in bytes",
			Value: chunk.DefaultConfig().MinSize,
		},
		&cli.IntFlag{
			Name:  "chunk-max",
			Usage: "Maximum chunk size in bytes",
			Value: chunk.DefaultConfig().MaxSize,
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of chunks embedded per request",
			Value: pipeline.DefaultBatchSize,
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Maximum in-flight units at network-bound stages",
			Value: pipeline.DefaultConcurrency,
		},
		&cli.BoolFlag{
			Name:  "no-enrich",
			Usage: "Skip question/answer metadata generation",
		},
	}
}

// indexConfig enumerates the ingestion stages one run enables. The
// builder appends stages based on it, evaluated once before the run.
type indexConfig struct {
	Language    string
	Path        string
	CachePath   string
	Chunks      chunk.Config
	BatchSize   int
	Concurrency int
	Enrich      bool
}

func indexConfigFromFlags(c *cli.Context) indexConfig {
	return indexConfig{
		Language:    c.String("language"),
		Path:        c.String("path"),
		CachePath:   c.String("cache"),
		Chunks:      chunk.Config{MinSize: c.Int("chunk-min"), MaxSize: c.Int("chunk-max")},
		BatchSize:   c.Int("batch-size"),
		Concurrency: c.Int("concurrency"),
		Enrich:      !c.Bool("no-enrich"),
	}
}

func openStore(c *cli.Context) (vectorstore.Store, error) {
	store, err := chromem.Open(c.String("db"), c.String("collection"))
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}
	return store, nil
}

func newProvider() (ai.Provider, error) {
	config, err := ai.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("loading AI configuration: %w", err)
	}
	provider, err := openai.NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("creating AI provider: %w", err)
	}
	return provider, nil
}

func indexCommand(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	provider, err := newProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	stats, err := runIndex(context.Background(), indexConfigFromFlags(c), store, provider)
	if err != nil {
		return err
	}
	printStats(stats)
	return nil
}

// runIndex composes and runs the ingestion pipeline for one corpus.
func runIndex(ctx context.Context, cfg indexConfig, store vectorstore.Store, provider ai.Provider) (*pipeline.RunStats, error) {
	extensions, err := chunk.Extensions(cfg.Language)
	if err != nil {
		return nil, err
	}
	source, err := pipeline.NewFileSource(cfg.Path, extensions)
	if err != nil {
		return nil, err
	}

	markdown, err := chunk.NewMarkdown(cfg.Chunks)
	if err != nil {
		return nil, err
	}
	code, err := chunk.ForLanguage(cfg.Language, cfg.Chunks)
	if err != nil {
		return nil, err
	}

	dedup := cache.Open(cfg.CachePath, slog.Default())
	defer dedup.Close()

	md, rest := pipeline.FromSource(source).
		WithConcurrency(cfg.Concurrency).
		FilterCached(dedup).
		SplitBy(func(d *core.Document) bool { return chunk.IsMarkdownPath(d.Path) })

	mdChunks := md.ThenChunk(markdown)
	codeChunks := rest.ThenChunk(code)

	if cfg.Enrich {
		textQA, err := enrich.NewTextQA(provider.Completer())
		if err != nil {
			return nil, err
		}
		codeQA, err := enrich.NewCodeQA(provider.Completer())
		if err != nil {
			return nil, err
		}
		mdChunks = mdChunks.Then(textQA)
		codeChunks = codeChunks.Then(codeQA)
	}

	return mdChunks.
		Merge(codeChunks).
		ThenInBatch(cfg.BatchSize, provider.Embedder()).
		LogErrors().
		FilterErrors().
		ThenStore(store).
		Run(ctx)
}

func printStats(stats *pipeline.RunStats) {
	fmt.Printf("loaded:     %d\n", stats.Loaded())
	fmt.Printf("duplicates: %d\n", stats.Duplicates())
	fmt.Printf("chunks:     %d\n", stats.Chunks())
	fmt.Printf("enriched:   %d\n", stats.Enriched())
	fmt.Printf("embedded:   %d\n", stats.Embedded())
	fmt.Printf("stored:     %d\n", stats.Stored())
	fmt.Printf("failed:     %d\n", stats.Failed())
}

// buildQueryPipeline wires the standard transform chain, retrieval and
// answering over the store.
func buildQueryPipeline(store vectorstore.Store, provider ai.Provider, topK int) (*query.Pipeline, error) {
	subquestions, err := query.NewSubquestions(provider.Completer())
	if err != nil {
		return nil, err
	}
	embed, err := query.NewEmbed(provider.Embedder())
	if err != nil {
		return nil, err
	}
	retriever, err := query.NewRetriever(store, topK)
	if err != nil {
		return nil, err
	}
	answerer, err := query.NewAnswerer(provider.Completer())
	if err != nil {
		return nil, err
	}

	return query.New().
		ThenTransform(subquestions).
		ThenTransform(embed).
		ThenRetrieve(retriever).
		ThenAnswer(answerer), nil
}

func queryCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	provider, err := newProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	p, err := buildQueryPipeline(store, provider, c.Int("top-k"))
	if err != nil {
		return err
	}

	answered, err := p.Query(context.Background(), question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(answered.Answer)

	sources := make(map[string]bool)
	for _, hit := range answered.Hits {
		if path := hit.Record.Metadata["path"]; path != "" && !sources[path] {
			sources[path] = true
			fmt.Fprintf(os.Stderr, "source: %s\n", path)
		}
	}
	return nil
}

func evalCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	provider, err := newProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	// A clean baseline: deleting an absent collection is a no-op.
	if c.Bool("force-recreate") {
		if err := store.DeleteCollection(ctx); err != nil {
			return fmt.Errorf("recreating collection: %w", err)
		}
	}

	cfg := indexConfigFromFlags(c)
	stats, err := runIndex(ctx, cfg, store, provider)
	if err != nil {
		return err
	}
	printStats(stats)

	p, err := buildQueryPipeline(store, provider, c.Int("top-k"))
	if err != nil {
		return err
	}

	if n := c.Int("generate-questions"); n > 0 {
		subject := filepath.Base(filepath.Clean(cfg.Path))
		questions, err := query.GenerateQuestions(ctx, p, provider.Completer(), n, subject)
		if err != nil {
			return err
		}
		raw, err := json.MarshalIndent(map[string][]string{"questions": questions}, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(c.String("output"), raw, 0644)
	}

	var dataset *query.Dataset
	if file := c.String("file"); file != "" {
		dataset, err = query.Load(file)
		if err != nil {
			return err
		}
	} else if c.Args().Len() > 0 {
		dataset = query.FromQuestions(c.Args().Slice())
	} else {
		return fmt.Errorf("either --file or literal questions are required")
	}

	p.EvaluateWith(dataset)
	if _, err := p.QueryAll(ctx, dataset.Questions()); err != nil {
		return err
	}

	if c.Bool("record-ground-truth") {
		dataset.RecordAnswersAsGroundTruth()
	}

	if err := dataset.WriteJSON(c.String("output")); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d evaluation entries to %s\n", dataset.Len(), c.String("output"))
	return nil
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
