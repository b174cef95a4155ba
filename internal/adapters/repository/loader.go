package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/gridpulse/internal/domain/model"
	"github.com/okian/gridpulse/pkg/logger"
	"github.com/okian/gridpulse/pkg/metrics"
)

// noGridSlot marks a driver who did not take a grid position.
const noGridSlot = 0

const utf8BOM = "\uFEFF"

// notClassified are position cells that mean the driver has no finishing position.
var notClassified = map[string]bool{"": true, `\N`: true}

// RequiredColumns must be present in the header row.
var RequiredColumns = []model.Field{model.FieldCircuitName, model.FieldGrid, model.FieldPosition}

type loader struct {
	comma  rune
	source string
	logger logger.Logger
}

func newLoader(source string, opts ...Option) *loader {
	l := &loader{comma: ',', source: source}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the CSV file at path once and returns the qualifying rows.
func Load(ctx context.Context, path string, opts ...Option) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Source: path, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}
	defer func() { _ = f.Close() }()

	return newLoader(path, opts...).read(ctx, f)
}

// Read parses CSV from r. The source name defaults to "reader".
func Read(ctx context.Context, r io.Reader, opts ...Option) (*Dataset, error) {
	return newLoader("reader", opts...).read(ctx, r)
}

func (l *loader) read(ctx context.Context, r io.Reader) (*Dataset, error) {
	start := time.Now()

	cr := csv.NewReader(r)
	cr.Comma = l.comma
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty input, header row required")
		}
		return nil, &DataLoadError{Source: l.source, Line: 1, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}
	cols, err := l.columns(header)
	if err != nil {
		return nil, err
	}

	var (
		rows    []model.RaceResult
		dropped int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, &DataLoadError{Source: l.source, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &DataLoadError{Source: l.source, Line: line, Err: fmt.Errorf("%w: %w", ErrMalformedValue, err)}
		}
		line, _ := cr.FieldPos(0)

		row, err := l.parse(rec, cols, line)
		if err != nil {
			return nil, err
		}
		if row.Grid == noGridSlot {
			dropped++
			continue
		}
		rows = append(rows, row)
	}

	ds := NewDataset(l.source, rows, dropped)
	metrics.UpdateDatasetRows(ds.Count(ctx))
	metrics.RecordDatasetRowsDropped(dropped)
	metrics.RecordDatasetLoadDuration(float64(time.Since(start).Milliseconds()))
	if l.logger != nil {
		l.logger.Info(ctx, "dataset loaded",
			logger.String("source", l.source),
			logger.Int("rows", ds.Count(ctx)),
			logger.Int("dropped_no_grid", dropped),
			logger.Int("circuits", len(ds.circuits)),
			logger.Duration("took", time.Since(start)),
		)
	}
	return ds, nil
}

// columns maps header names to record indexes and checks the required ones.
func (l *loader) columns(header []string) (map[model.Field]int, error) {
	cols := make(map[model.Field]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		if _, dup := cols[model.Field(h)]; !dup {
			cols[model.Field(h)] = i
		}
	}
	for _, f := range RequiredColumns {
		if _, ok := cols[f]; !ok {
			return nil, &DataLoadError{Source: l.source, Line: 1, Column: string(f), Err: ErrMissingColumn}
		}
	}
	return cols, nil
}

func (l *loader) parse(rec []string, cols map[model.Field]int, line int) (model.RaceResult, error) {
	cell := func(f model.Field) (string, bool) {
		i, ok := cols[f]
		if !ok || i >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}

	circuit, _ := cell(model.FieldCircuitName)
	row := model.RaceResult{CircuitName: circuit}

	gridCell, _ := cell(model.FieldGrid)
	grid, err := strconv.Atoi(gridCell)
	if err != nil {
		return row, &DataLoadError{Source: l.source, Line: line, Column: string(model.FieldGrid),
			Err: fmt.Errorf("%w: %q is not an integer", ErrMalformedValue, gridCell)}
	}
	row.Grid = grid

	posCell, _ := cell(model.FieldPosition)
	if !notClassified[posCell] {
		pos, err := strconv.Atoi(posCell)
		if err != nil {
			return row, &DataLoadError{Source: l.source, Line: line, Column: string(model.FieldPosition),
				Err: fmt.Errorf("%w: %q is not an integer", ErrMalformedValue, posCell)}
		}
		row.Position = pos
	}

	row.RaceID, _ = cell(model.FieldRaceID)
	row.Driver, _ = cell(model.FieldDriver)
	if y, ok := cell(model.FieldYear); ok {
		row.Year, _ = strconv.Atoi(y)
	}
	return row, nil
}
