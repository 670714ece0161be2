package source

import (
	"context"
	"fmt"
	"log"

	"backend-trailmarket/internal/blob"
	"backend-trailmarket/internal/db"
	"backend-trailmarket/internal/track"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db             db.Querier
	blobs          blob.Store
	orch           *Orchestrator
	maxUploadBytes int64
}

func NewService(querier db.Querier, blobs blob.Store, orch *Orchestrator, maxUploadBytes int64) *Service {
	return &Service{db: querier, blobs: blobs, orch: orch, maxUploadBytes: maxUploadBytes}
}

// Ingest stores the raw bytes content-addressed, records a PENDING
// RouteSource and triggers parsing. The blob is durable before the row
// exists, so a crash in between never leaves a record pointing at
// nothing. Size and storage errors are reported synchronously and
// create no row.
func (s *Service) Ingest(ctx context.Context, routeID string, format track.Format, filename, mimeType string, data []byte) (RouteSource, error) {
	if s.maxUploadBytes > 0 && int64(len(data)) > s.maxUploadBytes {
		return RouteSource{}, ErrFileTooLarge
	}

	hash := blob.HashBytes(data)
	filePath, err := s.blobs.Put(ctx, hash, data)
	if err != nil {
		return RouteSource{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	src := RouteSource{
		ID:               uuid.NewString(),
		RouteID:          routeID,
		Format:           format,
		OriginalFilename: filename,
		MimeType:         mimeType,
		FilePath:         filePath,
		FileSize:         int64(len(data)),
		SHA256:           hash,
		ParseStatus:      StatusPending,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO route_sources (id, route_id, format, original_filename, mime_type, file_path, file_size, sha256, parse_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING uploaded_at
	`, src.ID, src.RouteID, string(src.Format), src.OriginalFilename, src.MimeType, src.FilePath, src.FileSize, src.SHA256, string(src.ParseStatus))
	if err := row.Scan(&src.UploadedAt); err != nil {
		return RouteSource{}, err
	}

	if s.orch != nil {
		processed, err := s.orch.Process(ctx, src.ID)
		if err != nil {
			log.Printf("parse of source %s deferred: %v", src.ID, err)
			return src, nil
		}
		return processed, nil
	}
	return src, nil
}

func (s *Service) Get(ctx context.Context, id string) (RouteSource, error) {
	return getSource(ctx, s.db, id)
}

// History lists all sources ever uploaded for a route, newest first.
func (s *Service) History(ctx context.Context, routeID string) ([]RouteSource, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, route_id, format, original_filename, mime_type, file_path, file_size, sha256,
		       uploaded_at, parsed_at, parse_status, parse_error, parser_version
		FROM route_sources WHERE route_id=$1
		ORDER BY uploaded_at DESC, id
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []RouteSource
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

func getSource(ctx context.Context, querier db.Querier, id string) (RouteSource, error) {
	row := querier.QueryRow(ctx, `
		SELECT id, route_id, format, original_filename, mime_type, file_path, file_size, sha256,
		       uploaded_at, parsed_at, parse_status, parse_error, parser_version
		FROM route_sources WHERE id=$1
	`, id)
	return scanSource(row)
}

func scanSource(row pgx.Row) (RouteSource, error) {
	var src RouteSource
	var format, status string
	if err := row.Scan(&src.ID, &src.RouteID, &format, &src.OriginalFilename, &src.MimeType,
		&src.FilePath, &src.FileSize, &src.SHA256, &src.UploadedAt, &src.ParsedAt,
		&status, &src.ParseError, &src.ParserVersion); err != nil {
		return RouteSource{}, err
	}
	src.Format = track.Format(format)
	src.ParseStatus = Status(status)
	return src, nil
}
