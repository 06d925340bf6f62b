package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"datasetgen/internal/config"
	"datasetgen/internal/dataset"
	"datasetgen/internal/generator"
	"datasetgen/internal/repository"
	"datasetgen/internal/source"

	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "", "path to config file (optional, defaults apply without one)")
	input := flag.String("input", "", "master input JSON (overrides config)")
	outJSON := flag.String("out-json", "", "structured output path (overrides config)")
	outCSV := flag.String("out-csv", "", "tabular output path (overrides config)")
	numRows := flag.Int("rows", 0, "number of rows to generate (overrides config)")
	seed := flag.Int64("seed", 0, "random seed (overrides config)")
	persist := flag.Bool("persist", false, "also store rows in the configured database")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *cfgPath != "" {
		cfg, err = config.LoadConfig(*cfgPath)
		if err != nil {
			logrus.Fatalf("Failed to load config: %v", err)
		}
	} else {
		cfg = config.Default()
	}

	if *input != "" {
		cfg.Input.MasterFile = *input
	}
	if *outJSON != "" {
		cfg.Output.JSONPath = *outJSON
	}
	if *outCSV != "" {
		cfg.Output.CSVPath = *outCSV
	}

	// Load input before anything else: a missing master file aborts the
	// run with no partial output.
	records, err := source.LoadMaster(cfg.Input.MasterFile)
	if err != nil {
		logrus.Fatalf("Failed to load master input: %v", err)
	}
	logrus.Infof("Loaded %d file records from %s", len(records), cfg.Input.MasterFile)

	// Internal services log through zap; keep their output out of the
	// CLI's logrus stream unless debugging.
	zlogger := zap.NewNop()

	var repo repository.DatasetRepository
	if *persist {
		if cfg.Database.Type == "none" {
			logrus.Fatal("Cannot persist: no database configured")
		}
		repo, err = repository.New(repository.Options{
			Type:           cfg.Database.Type,
			Path:           cfg.Database.Path,
			URL:            cfg.Database.URL,
			MigrationsPath: "./migrations",
		}, zlogger)
		if err != nil {
			logrus.Fatalf("Failed to open database: %v", err)
		}
		defer func() {
			if err := repo.Close(); err != nil {
				logrus.Printf("Error closing database: %v", err)
			}
		}()
	}

	gen := generator.New(cfg.Generation, repo, zlogger)

	rows, err := gen.Generate(records, generator.Params{NumRows: *numRows, Seed: *seed})
	if err != nil {
		logrus.Fatalf("Generation failed: %v", err)
	}

	if err := dataset.WriteFiles(cfg.Output.JSONPath, cfg.Output.CSVPath, rows); err != nil {
		logrus.Fatalf("Failed to write output: %v", err)
	}
	logrus.Infof("Wrote %d rows to %s", len(rows), cfg.Output.JSONPath)
	logrus.Infof("Wrote tabular CSV to %s", cfg.Output.CSVPath)

	if repo != nil {
		if err := gen.StoreRows("", rows); err != nil {
			logrus.Fatalf("Failed to persist rows: %v", err)
		}
		logrus.Infof("Persisted %d rows to %s database", len(rows), cfg.Database.Type)
	}
}
