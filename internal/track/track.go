package track

import (
	"errors"
	"io"
	"time"
)

// Format identifies an accepted upload format. Adding a format means
// adding a Parser implementation and registering it; nothing downstream
// changes.
type Format string

const FormatGPX Format = "gpx"

var (
	ErrUnsupportedFormat = errors.New("unsupported source format")
	ErrInvalidSourceFile = errors.New("invalid source file")
	ErrEmptyTrack        = errors.New("empty track")
)

// Trackpoint is one recorded sample along a route, in traversal order.
type Trackpoint struct {
	Lat        float64
	Lng        float64
	ElevationM *float64
	Time       *time.Time
}

// Parser decodes raw track bytes into an ordered trackpoint sequence.
// Implementations are pure with respect to their input: no network, no
// shared state.
type Parser interface {
	Supports(f Format) bool
	ParseTrack(r io.Reader) ([]Trackpoint, error)
}

// Registry resolves a format to the first parser supporting it.
type Registry struct {
	parsers []Parser
}

func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers}
}

func DefaultRegistry() *Registry {
	return NewRegistry(GPXParser{})
}

func (r *Registry) ParserFor(f Format) (Parser, error) {
	for _, p := range r.parsers {
		if p.Supports(f) {
			return p, nil
		}
	}
	return nil, ErrUnsupportedFormat
}
