// backend-go/cmd/analyze/main.go
//
// Runs the analytics models against CSV/XLSX exports from the command line,
// optionally persisting results to postgres and uploading JSON exports to
// object storage.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/hydroinv/backend-go/internal/cache"
	"github.com/andresuchdata/hydroinv/backend-go/internal/classify"
	"github.com/andresuchdata/hydroinv/backend-go/internal/config"
	"github.com/andresuchdata/hydroinv/backend-go/internal/demand"
	"github.com/andresuchdata/hydroinv/backend-go/internal/domain"
	"github.com/andresuchdata/hydroinv/backend-go/internal/health"
	"github.com/andresuchdata/hydroinv/backend-go/internal/ingest"
	"github.com/andresuchdata/hydroinv/backend-go/internal/loader"
	"github.com/andresuchdata/hydroinv/backend-go/internal/repository"
	"github.com/andresuchdata/hydroinv/backend-go/internal/service"
	"github.com/andresuchdata/hydroinv/backend-go/internal/storage"
	"github.com/andresuchdata/hydroinv/backend-go/pkg/logger"
)

func newInputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "Input CSV or XLSX file",
		Required: true,
	}
}

func newOutputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write results to this JSON file instead of stdout",
	}
}

func newDBURLFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string; when set, results are persisted",
		Required: required,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newUploadFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "upload",
		Usage: "Upload results to the configured object storage bucket",
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "analyze",
		Usage: "Run inventory analytics models on exported data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "classify",
				Usage: "Classify items by sales behavior",
				Flags: []cli.Flag{
					newInputFlag(),
					newOutputFlag(),
					newDBURLFlag(false),
					newUploadFlag(),
					&cli.StringFlag{
						Name:    "method",
						Aliases: []string{"m"},
						Usage:   "Classification method: rule_based, dbscan, kmeans or hybrid",
						Value:   "hybrid",
					},
				},
				Action: runClassify,
			},
			{
				Name:  "demand",
				Usage: "Classify demand patterns and derive forecasts",
				Flags: []cli.Flag{
					newInputFlag(),
					newOutputFlag(),
					newDBURLFlag(false),
					newUploadFlag(),
				},
				Action: runDemand,
			},
			{
				Name:  "health",
				Usage: "Score new item health",
				Flags: []cli.Flag{
					newInputFlag(),
					newOutputFlag(),
					newDBURLFlag(false),
					newUploadFlag(),
				},
				Action: runHealth,
			},
			{
				Name:  "load",
				Usage: "Load CSV exports into the raw input tables",
				Subcommands: []*cli.Command{
					{
						Name:   "item-metrics",
						Usage:  "Load classifier inputs",
						Flags:  []cli.Flag{newInputFlag(), newDBURLFlag(true)},
						Action: runLoad((*loader.Loader).LoadItemMetrics),
					},
					{
						Name:   "monthly-demand",
						Usage:  "Load 12-month demand histories",
						Flags:  []cli.Flag{newInputFlag(), newDBURLFlag(true)},
						Action: runLoad((*loader.Loader).LoadMonthlyDemand),
					},
					{
						Name:   "new-items",
						Usage:  "Load health scoring inputs",
						Flags:  []cli.Flag{newInputFlag(), newDBURLFlag(true)},
						Action: runLoad((*loader.Loader).LoadNewItemMetrics),
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("analyze failed")
	}
}

func runClassify(c *cli.Context) error {
	method, ok := domain.ParseClassificationMethod(c.String("method"))
	if !ok {
		return fmt.Errorf("unknown classification method %q", c.String("method"))
	}

	input, err := resolveInput(c.String("input"))
	if err != nil {
		return err
	}

	items, err := ingest.ReadItemMetrics(input)
	if err != nil {
		return err
	}

	svc, cleanup, err := buildService(c)
	if err != nil {
		return err
	}
	defer cleanup()

	results, stats, err := svc.ClassifyItems(c.Context, items, method)
	if err != nil {
		return err
	}

	payload := map[string]any{"results": results, "stats": stats}
	if err := writeOutput(c.String("output"), payload); err != nil {
		return err
	}
	return maybeUpload(c, "classification", payload)
}

func runDemand(c *cli.Context) error {
	input, err := resolveInput(c.String("input"))
	if err != nil {
		return err
	}

	rows, err := ingest.ReadMonthlyDemand(input)
	if err != nil {
		return err
	}

	svc, cleanup, err := buildService(c)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := svc.AnalyzeDemand(c.Context, rows)
	if err != nil {
		return err
	}

	payload := map[string]any{"results": results}
	if err := writeOutput(c.String("output"), payload); err != nil {
		return err
	}
	return maybeUpload(c, "demand_patterns", payload)
}

func runHealth(c *cli.Context) error {
	input, err := resolveInput(c.String("input"))
	if err != nil {
		return err
	}

	items, err := ingest.ReadNewItemMetrics(input)
	if err != nil {
		return err
	}

	svc, cleanup, err := buildService(c)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := svc.ScoreNewItems(c.Context, items)
	if err != nil {
		return err
	}

	payload := map[string]any{"results": results}
	if err := writeOutput(c.String("output"), payload); err != nil {
		return err
	}
	return maybeUpload(c, "health_scores", payload)
}

func runLoad(load func(*loader.Loader, context.Context, string) (loader.Stats, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		input, err := resolveInput(c.String("input"))
		if err != nil {
			return err
		}

		db, err := loader.Open(c.String("db-url"))
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := load(loader.New(db), c.Context, input)
		if err != nil {
			return err
		}
		return writeOutput("", stats)
	}
}

// buildService wires the models with an optional repository: without --db-url
// the run is compute-only.
func buildService(c *cli.Context) (*service.AnalyticsService, func(), error) {
	cfg := config.Load()

	classifier := classify.New(classify.DefaultConfig())
	demandModel := demand.New(demand.DefaultConfig())
	scorer, err := health.New(health.DefaultConfig())
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var repo repository.AnalyticsRepository
	if dbURL := c.String("db-url"); dbURL != "" {
		db, err := sqlx.Connect("pgx", dbURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		repo = repository.NewAnalyticsRepository(db)
		cleanup = func() { db.Close() }
	}

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	return service.NewAnalyticsService(classifier, demandModel, scorer, repo, dashboardCache), cleanup, nil
}

func resolveInput(path string) (string, error) {
	cfg := config.Load()
	return ingest.NormalizePath(path, cfg.App.DataDir)
}

func writeOutput(path string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	if path == "" {
		fmt.Println(string(payload))
		return nil
	}
	return os.WriteFile(path, payload, 0o644)
}

func maybeUpload(c *cli.Context, name string, payload any) error {
	if !c.Bool("upload") {
		return nil
	}

	cfg := config.Load()
	client, err := storage.NewS3Client(storage.S3Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		UseSSL:    true,
	})
	if err != nil {
		return err
	}

	exporter := storage.NewExporter(client, cfg.Storage.Prefix)
	_, err = exporter.ExportJSON(c.Context, name, payload)
	return err
}
