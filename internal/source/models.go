package source

import (
	"errors"
	"time"

	"backend-trailmarket/internal/track"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusParsing Status = "PARSING"
	StatusParsed  Status = "PARSED"
	StatusFailed  Status = "FAILED"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusParsed || s == StatusFailed
}

// Stable machine-readable failure codes stored on FAILED sources. The
// presentation layer localizes these; raw error text is never exposed.
const (
	ReasonUnsupportedFormat = "unsupported_format"
	ReasonInvalidGPX        = "invalid_gpx"
	ReasonEmptyTrack        = "empty_track"
	ReasonFileTooLarge      = "file_too_large"
)

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrStorage      = errors.New("storage failure")
)

// RouteSource is one raw upload event for a route. A re-upload creates a
// new source superseding the old one; failed sources stay as audit
// history and are never retried in place.
type RouteSource struct {
	ID               string       `json:"id"`
	RouteID          string       `json:"route_id"`
	Format           track.Format `json:"format"`
	OriginalFilename string       `json:"original_filename"`
	MimeType         string       `json:"mime_type"`
	FilePath         string       `json:"file_path"`
	FileSize         int64        `json:"file_size"`
	SHA256           string       `json:"sha256"`
	UploadedAt       time.Time    `json:"uploaded_at"`
	ParsedAt         *time.Time   `json:"parsed_at,omitempty"`
	ParseStatus      Status       `json:"parse_status"`
	ParseError       *string      `json:"parse_error,omitempty"`
	ParserVersion    *string      `json:"parser_version,omitempty"`
}
