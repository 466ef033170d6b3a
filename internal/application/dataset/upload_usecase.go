package dataset

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"fnb-insights/internal/domain/sales"
)

// Dataset is one processed sales report, held per upload session and
// recomputed against on every filter change.
type Dataset struct {
	ID        string
	Name      string
	Rows      []sales.Transaction
	CreatedAt time.Time
}

// Branches lists the distinct branch names in the dataset.
func (d Dataset) Branches() []string {
	return sales.Branches(d.Rows)
}

// Repository stores processed datasets. The memory store backs upload
// sessions; the Postgres repository backs persisted imports.
type Repository interface {
	SaveDataset(ctx context.Context, ds Dataset) (string, error)
	GetDataset(ctx context.Context, id string) (Dataset, error)
}

// UploadInput carries one report upload.
type UploadInput struct {
	Name    string
	Report  io.Reader
	Mapping Mapping
}

// UploadUseCase parses an uploaded sales report and stores the processed
// dataset.
type UploadUseCase struct {
	repo Repository
	log  *logrus.Logger
	now  func() time.Time
}

// NewUploadUseCase wires the upload usecase.
func NewUploadUseCase(repo Repository, log *logrus.Logger) *UploadUseCase {
	return &UploadUseCase{repo: repo, log: log, now: time.Now}
}

// Execute parses, validates and stores the report. The returned dataset
// carries the repository-assigned ID.
func (u *UploadUseCase) Execute(ctx context.Context, input UploadInput) (Dataset, error) {
	rows, err := ParseCSV(input.Report, input.Mapping)
	if err != nil {
		return Dataset{}, fmt.Errorf("parse report: %w", err)
	}
	if len(rows) == 0 {
		return Dataset{}, fmt.Errorf("report contains no usable rows")
	}

	ds := Dataset{
		Name:      input.Name,
		Rows:      rows,
		CreatedAt: u.now(),
	}
	id, err := u.repo.SaveDataset(ctx, ds)
	if err != nil {
		return Dataset{}, fmt.Errorf("store dataset: %w", err)
	}
	ds.ID = id

	if u.log != nil {
		u.log.WithFields(logrus.Fields{
			"dataset":  id,
			"rows":     len(rows),
			"branches": len(ds.Branches()),
		}).Info("dataset processed")
	}
	return ds, nil
}
