package repository

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for load errors. A DataLoadError always wraps one of them.
var (
	ErrUnreadable     = errors.New("dataset unreadable")
	ErrMissingColumn  = errors.New("required column missing")
	ErrMalformedValue = errors.New("malformed value")
)

// DataLoadError reports why the dataset could not be loaded. It is fatal at startup.
type DataLoadError struct {
	Source string
	Line   int    // 1-based CSV line, 0 when not tied to a row
	Column string // offending column, if any
	Err    error
}

func (e *DataLoadError) Error() string {
	var b strings.Builder
	b.WriteString("load ")
	b.WriteString(e.Source)
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	b.WriteString(": ")
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DataLoadError) Unwrap() error { return e.Err }
