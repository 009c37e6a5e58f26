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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/gutread"
	"github.com/poiesic/gutread/archive"
	"github.com/poiesic/gutread/storage"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "gutread",
		Usage: "Import the Project Gutenberg catalog and query it in natural language",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "db-host",
				Usage: "Database host (overrides DB_HOST)",
			},
			&cli.StringFlag{
				Name:  "db-port",
				Usage: "Database port (overrides DB_PORT)",
			},
			&cli.StringFlag{
				Name:  "db-name",
				Usage: "Database name (overrides DB_NAME)",
			},
			&cli.StringFlag{
				Name:  "db-user",
				Usage: "Database user (overrides DB_USER)",
			},
			&cli.StringFlag{
				Name:  "db-password",
				Usage: "Database password (overrides DB_PASSWORD)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import the catalog archive into the database",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "archive",
						Aliases: []string{"a"},
						Usage:   "Path to the catalog archive",
						Value:   "rdf-files.tar.bz2",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "Where to download the archive from when it is missing",
						Value: archive.DefaultFeedURL,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of entries to process at once",
						Value: 1,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a natural-language question about the catalog",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "llm-host",
						Usage: "OpenAI-compatible API base URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "llm-model",
						Usage:    "Model name to use for SQL generation and answers",
						Required: true,
					},
				},
			},
			{
				Name:   "schema",
				Usage:  "Print the catalog database schema",
				Action: schemaCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads .env if present and configures the default logger.
func setup(c *cli.Context) error {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

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

func openCatalog(ctx context.Context, c *cli.Context) (*gutread.Catalog, error) {
	cfg := storage.ConfigFromEnv()
	if v := c.String("db-host"); v != "" {
		cfg.Host = v
	}
	if v := c.String("db-port"); v != "" {
		cfg.Port = v
	}
	if v := c.String("db-name"); v != "" {
		cfg.Database = v
	}
	if v := c.String("db-user"); v != "" {
		cfg.User = v
	}
	if v := c.String("db-password"); v != "" {
		cfg.Password = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w (set DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD)", err)
	}
	return gutread.Open(ctx, cfg)
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()
	path := c.String("archive")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("archive missing, downloading", "url", c.String("url"), "dest", path)
		if err := archive.Fetch(ctx, c.String("url"), path); err != nil {
			return fmt.Errorf("downloading archive: %w", err)
		}
	}

	catalog, err := openCatalog(ctx, c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	result, err := catalog.Import(ctx, path, c.Int("workers"))
	if err != nil {
		// A mid-stream archive failure still reports what was committed.
		if result != nil && result.Entries > 0 {
			fmt.Println(result)
		}
		return err
	}

	fmt.Println(result)
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("usage: gutread ask <question>")
	}

	model, err := openai.New(
		openai.WithBaseURL(c.String("llm-host")),
		openai.WithToken(tokenFromEnv()),
		openai.WithModel(c.String("llm-model")),
	)
	if err != nil {
		return fmt.Errorf("creating model client: %w", err)
	}

	catalog, err := openCatalog(ctx, c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	answer, err := catalog.Ask(ctx, model, question)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

func schemaCommand(c *cli.Context) error {
	ctx := context.Background()

	catalog, err := openCatalog(ctx, c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	schema, err := catalog.Schema(ctx)
	if err != nil {
		return err
	}

	fmt.Print(schema)
	return nil
}

// tokenFromEnv returns the API token for the model service. Local
// OpenAI-compatible servers accept any value.
func tokenFromEnv() string {
	if token := os.Getenv("OPENAI_API_KEY"); token != "" {
		return token
	}
	return "none"
}
