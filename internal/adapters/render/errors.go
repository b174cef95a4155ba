package render

import "errors"

var (
	// ErrUnsupportedKind is returned for a spec kind the renderer cannot draw.
	ErrUnsupportedKind = errors.New("render: unsupported chart kind")
	// ErrUnsupportedFormat is returned when an output format is not known.
	ErrUnsupportedFormat = errors.New("render: unsupported output format")
	// ErrNilWriter is returned when Render is given no destination.
	ErrNilWriter = errors.New("render: nil writer")
)
