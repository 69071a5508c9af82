// Copyright 2025 Poiesic Systems
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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/kbsearch"
	"github.com/poiesic/kbsearch/ai"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "kbsearch",
		Usage: "Semantic search over knowledge-base articles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "./kbsearch_db",
				EnvVars: []string{"KBSEARCH_DB"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML provider configuration",
				Value:   "kbsearch.yaml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Dotenv file with KBSEARCH_* overrides",
				Value: ".env",
			},
		},
		Before: func(c *cli.Context) error {
			if err := setupLogger(c); err != nil {
				return err
			}
			return loadEnvFile(c)
		},
		Commands: []*cli.Command{
			{
				Name:      "seed",
				Usage:     "Load documents from a YAML file",
				ArgsUsage: "<file.yaml>",
				Action:    seedCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "index",
						Usage: "Index the new documents after loading them",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Answer a question from the indexed documents",
				ArgsUsage: "<query...>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the response as JSON",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Index one document, every approved document, or only stale ones (default)",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:  "id",
						Usage: "Document ID to index",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Re-index every approved document",
					},
					&cli.BoolFlag{
						Name:  "stale",
						Usage: "Index documents that are missing or out of date",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show index coverage",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the status as JSON",
					},
				},
			},
			{
				Name:   "unindex",
				Usage:  "Remove one document from the index",
				Action: unindexCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:     "id",
						Usage:    "Document ID to remove",
						Required: true,
					},
				},
			},
			{
				Name:   "prune",
				Usage:  "Remove index records whose document is gone or no longer approved",
				Action: pruneCommand,
			},
			{
				Name:   "reembed",
				Usage:  "Re-embed index records with the configured model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Also re-embed records already produced by the configured model",
					},
				},
			},
		},
	}
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

// loadEnvFile applies the dotenv file without overriding variables already set.
// The default file may be absent; an explicitly named one may not.
func loadEnvFile(c *cli.Context) error {
	path := c.String("env-file")
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !c.IsSet("env-file") && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func loadAIConfig(c *cli.Context) (*ai.Config, error) {
	base, err := ai.LoadConfigFile(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := ai.ConfigFromEnv(base)
	if err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

func openEngine(c *cli.Context) (*kbsearch.Engine, error) {
	cfg, err := loadAIConfig(c)
	if err != nil {
		return nil, err
	}
	engine, err := kbsearch.Open(c.String("db"),
		kbsearch.WithAIConfig(cfg),
		kbsearch.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}
