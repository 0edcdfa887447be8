package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/smartsuschef/backend-go/internal/storage"
)

// ExportService renders forecasts as CSV and, when an object store is
// configured, archives a copy of every export.
type ExportService struct {
	forecast *ForecastService
	archive  storage.ObjectStorage

	now func() time.Time
}

// NewExportService creates the export service. archive may be nil, in which
// case exports are returned to the caller without being archived.
func NewExportService(forecast *ForecastService, archive storage.ObjectStorage) *ExportService {
	return &ExportService{forecast: forecast, archive: archive, now: time.Now}
}

// ExportForecastCSV runs the forecast and renders it as CSV, one row per
// (date, recipe). Returns the file content and a suggested filename.
func (s *ExportService) ExportForecastCSV(ctx context.Context, storeID int64, days, includePastDays int) ([]byte, string, error) {
	forecasts, err := s.forecast.GetForecast(ctx, storeID, days, includePastDays)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", "recipe_id", "recipe_name", "quantity", "confidence"}); err != nil {
		return nil, "", fmt.Errorf("write csv header: %w", err)
	}
	for _, f := range forecasts {
		record := []string{
			f.Date,
			strconv.FormatInt(f.RecipeID, 10),
			f.RecipeName,
			strconv.Itoa(f.Quantity),
			f.Confidence,
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("flush csv: %w", err)
	}

	filename := fmt.Sprintf("forecast_%d_%s.csv", storeID, s.now().UTC().Format("20060102T150405"))
	s.archiveExport(ctx, storeID, filename, buf.Bytes())
	return buf.Bytes(), filename, nil
}

// archiveExport uploads a copy of the export. Best effort: the caller gets
// the CSV whether or not the archive write succeeds.
func (s *ExportService) archiveExport(ctx context.Context, storeID int64, filename string, data []byte) {
	if s.archive == nil {
		return
	}
	key := fmt.Sprintf("exports/store_%d/%s", storeID, filename)
	if err := s.archive.UploadObject(ctx, key, "text/csv", data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("export archive upload failed")
	}
}
