package service

import (
	"context"
	"strings"
	"testing"

	"github.com/smartsuschef/backend-go/internal/storage"
	"github.com/smartsuschef/backend-go/pkg/clients/mlservice"
)

type fakeArchive struct {
	keys []string
}

func (f *fakeArchive) UploadObject(ctx context.Context, key, contentType string, data []byte) error {
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeArchive) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func TestExportForecastCSV(t *testing.T) {
	svc, _, predictor := newForecastFixture()
	predictor.predictions = okPrediction("pizza",
		mlservice.DayPrediction{Date: testToday, Yhat: 22},
	)

	export := NewExportService(svc, nil)
	data, filename, err := export.ExportForecastCSV(context.Background(), 1, 7, 0)
	if err != nil {
		t.Fatalf("ExportForecastCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "date,recipe_id,recipe_name,quantity,confidence" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2026-08-10,10,pizza,22,Medium" {
		t.Errorf("row = %q", lines[1])
	}
	if !strings.HasPrefix(filename, "forecast_1_") || !strings.HasSuffix(filename, ".csv") {
		t.Errorf("filename = %q", filename)
	}
}

func TestExportForecastCSV_ArchivesCopy(t *testing.T) {
	svc, _, predictor := newForecastFixture()
	predictor.predictions = okPrediction("pizza",
		mlservice.DayPrediction{Date: testToday, Yhat: 22},
	)

	archive := &fakeArchive{}
	export := NewExportService(svc, archive)
	if _, _, err := export.ExportForecastCSV(context.Background(), 1, 7, 0); err != nil {
		t.Fatalf("ExportForecastCSV failed: %v", err)
	}
	if len(archive.keys) != 1 || !strings.HasPrefix(archive.keys[0], "exports/store_1/") {
		t.Errorf("archive keys = %v", archive.keys)
	}
}

func TestExportForecastCSV_EmptyForecastStillExports(t *testing.T) {
	svc, _, predictor := newForecastFixture()
	predictor.predictions = &mlservice.PredictResult{Status: mlservice.StatusTraining}

	export := NewExportService(svc, nil)
	data, _, err := export.ExportForecastCSV(context.Background(), 1, 7, 0)
	if err != nil {
		t.Fatalf("ExportForecastCSV failed: %v", err)
	}
	if strings.TrimSpace(string(data)) != "date,recipe_id,recipe_name,quantity,confidence" {
		t.Errorf("expected header only, got %q", string(data))
	}
}
