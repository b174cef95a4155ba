package testdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okian/gridpulse/internal/domain/model"
	"github.com/okian/gridpulse/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// notClassified is how the source data spells a missing finishing position.
const notClassified = `\N`

// Header is the column order of written files.
var Header = []string{
	string(model.FieldRaceID),
	string(model.FieldYear),
	string(model.FieldCircuitName),
	string(model.FieldDriver),
	string(model.FieldGrid),
	string(model.FieldPosition),
}

// WriteCSV writes rows with Header. Position 0 is written as \N.
func WriteCSV(w io.Writer, rows []model.RaceResult, comma rune) error {
	cw := csv.NewWriter(w)
	if comma != 0 {
		cw.Comma = comma
	}
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	rec := make([]string, len(Header))
	for i, r := range rows {
		rec[0] = r.RaceID
		rec[1] = strconv.Itoa(r.Year)
		rec[2] = r.CircuitName
		rec[3] = r.Driver
		rec[4] = strconv.Itoa(r.Grid)
		rec[5] = notClassified
		if r.Position > 0 {
			rec[5] = strconv.Itoa(r.Position)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// saveToFile writes rows to cfg.OutputFile and returns the path used.
func saveToFile(ctx context.Context, cfg *Config, rows []model.RaceResult) (string, error) {
	filename := cfg.OutputFile
	if filename == "" {
		filename = "generated_results_" + time.Now().Format("20060102_150405") + ".csv"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	if err := WriteCSV(file, rows, cfg.Comma); err != nil {
		return "", err
	}

	logger.Get().Info(ctx, "results saved to file", logger.String("filename", filename))
	return filename, nil
}
