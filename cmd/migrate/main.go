package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/lib/pq"

	"fnb-insights/internal/infrastructure/config"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	migrationsPath := flag.String("dir", "db/migrations", "path to migrations directory")
	flag.Parse()

	cfg, err := config.LoadFromFile(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	if cfg.DB.DSN == "" {
		log.Fatal("db.dsn is not set; cannot run migrations")
	}

	absDir, err := filepath.Abs(*migrationsPath)
	if err != nil {
		log.Fatalf("resolve migrations path failed: %v", err)
	}
	if _, err := os.Stat(absDir); err != nil {
		log.Fatalf("migrations directory missing: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(absDir, "*.sql"))
	if err != nil {
		log.Fatalf("list migrations failed: %v", err)
	}
	if len(files) == 0 {
		log.Fatal("no .sql migration files found")
	}
	sort.Strings(files)

	pool, err := sql.Open("postgres", cfg.DB.DSN)
	if err != nil {
		log.Fatalf("open database failed: %v", err)
	}
	defer pool.Close()

	for _, f := range files {
		body, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s failed: %v", f, err)
		}
		log.Printf("running migration: %s", filepath.Base(f))
		if _, err := pool.Exec(string(body)); err != nil {
			log.Fatalf("migration %s failed: %v", filepath.Base(f), err)
		}
	}

	log.Println("migrations complete")
}
