package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"fnb-insights/internal/application/dataset"
	"fnb-insights/internal/infrastructure/config"
	"fnb-insights/internal/infrastructure/db"
	"fnb-insights/internal/infrastructure/persistence/postgres"
)

// Imports a POS sales report into Postgres as a persistent dataset.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to the CSV sales report")
	name := flag.String("name", "", "dataset name (defaults to the file name)")
	mappingPath := flag.String("mapping", "", "optional JSON file mapping fields to columns")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("-file is required")
	}

	cfg, err := config.LoadFromFile(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if cfg.DB.DSN == "" {
		log.Fatal("db.dsn is not set; the importer needs Postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("connect database failed: %v", err)
	}
	defer pool.Close()

	mapping, err := loadMapping(*mappingPath, *filePath)
	if err != nil {
		log.Fatalf("resolve column mapping failed: %v", err)
	}

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("open report failed: %v", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		log.Fatalf("stat report failed: %v", err)
	}
	bar := progressbar.DefaultBytes(info.Size(), "parsing report")

	rows, err := dataset.ParseCSV(io.TeeReader(file, bar), mapping)
	if err != nil {
		log.Fatalf("parse report failed: %v", err)
	}
	if len(rows) == 0 {
		log.Fatal("report contains no usable rows")
	}

	dsName := *name
	if dsName == "" {
		dsName = filepath.Base(*filePath)
	}

	repo := postgres.NewRepo(pool)
	id, err := repo.SaveDataset(ctx, dataset.Dataset{
		Name:      dsName,
		Rows:      rows,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Fatalf("store dataset failed: %v", err)
	}

	log.Printf("imported dataset %s (%d rows)", id, len(rows))
}

// loadMapping reads the mapping file, or guesses one from the CSV header.
func loadMapping(mappingPath, filePath string) (dataset.Mapping, error) {
	if mappingPath != "" {
		raw, err := os.ReadFile(mappingPath)
		if err != nil {
			return nil, err
		}
		var m dataset.Mapping
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return m, m.Validate()
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	header, err := csv.NewReader(file).Read()
	if err != nil {
		return nil, err
	}
	m := dataset.GuessMapping(header)
	return m, m.Validate()
}
