package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"fnb-insights/internal/infrastructure/config"
	"fnb-insights/internal/infrastructure/db"
	httpapi "fnb-insights/internal/interface/http"
)

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func main() {
	log := newLogger()

	cfg, err := config.LoadFromFile("config.yaml")
	if err != nil {
		log.WithError(err).Fatal("load config failed")
	}
	log.WithField("addr", cfg.HTTP.Addr).Info("configuration loaded")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		log.WithError(err).Warn("database connection failed, falling back to in-memory store")
		pool = nil
	} else if pool == nil {
		log.Info("no DB_DSN provided; running with in-memory store only")
	} else {
		defer pool.Close()
		log.Info("database connected")
	}

	apiServer := httpapi.NewServer(cfg, pool, log)
	log.WithField("addr", cfg.HTTP.Addr).Info("starting HTTP server")
	if err := http.ListenAndServe(cfg.HTTP.Addr, apiServer.Handler()); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
