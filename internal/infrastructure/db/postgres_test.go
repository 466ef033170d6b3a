package db

import (
	"context"
	"testing"

	"fnb-insights/internal/infrastructure/config"
)

func TestConnect_EmptyDSN(t *testing.T) {
	pool, err := Connect(context.Background(), config.DBConfig{DSN: ""})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if pool != nil {
		t.Error("expected nil pool for empty DSN")
	}
}
