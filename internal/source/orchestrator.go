package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"backend-trailmarket/internal/blob"
	"backend-trailmarket/internal/db"
	"backend-trailmarket/internal/stream"
	"backend-trailmarket/internal/track"
)

// ParserVersion is recorded on every PARSED source so results can be
// reprocessed after parser changes.
const ParserVersion = "v1"

// Orchestrator drives the RouteSource state machine:
//
//	PENDING --claim--> PARSING --success--> PARSED
//	                       |-----failure--> FAILED
//
// It is stateless; the claim is an atomic conditional update, so any
// number of workers can run Process concurrently and exactly one wins.
type Orchestrator struct {
	db       db.Querier
	blobs    blob.Store
	registry *track.Registry
	hub      *stream.Hub
	opts     track.MetricsOptions
}

func NewOrchestrator(querier db.Querier, blobs blob.Store, registry *track.Registry, hub *stream.Hub, opts track.MetricsOptions) *Orchestrator {
	return &Orchestrator{db: querier, blobs: blobs, registry: registry, hub: hub, opts: opts}
}

// Process parses the source and persists the outcome. Calling it on an
// already-terminal source is a no-op returning the stored record.
// Storage faults before the claim leave the record PENDING so a later
// attempt can pick it up.
func (o *Orchestrator) Process(ctx context.Context, sourceID string) (RouteSource, error) {
	src, err := getSource(ctx, o.db, sourceID)
	if err != nil {
		return RouteSource{}, err
	}
	if src.ParseStatus != StatusPending {
		return src, nil
	}

	// Fetch the blob before claiming: an unreadable blob is a storage
	// fault, not a parse failure, and must not consume the source.
	data, err := o.blobs.Get(ctx, src.SHA256)
	if err != nil {
		return src, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	tag, err := o.db.Exec(ctx, `
		UPDATE route_sources SET parse_status='PARSING'
		WHERE id=$1 AND parse_status='PENDING'
	`, src.ID)
	if err != nil {
		return src, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		// Lost the claim to a concurrent worker.
		return getSource(ctx, o.db, sourceID)
	}
	src.ParseStatus = StatusParsing
	o.notify(src)

	parser, err := o.registry.ParserFor(src.Format)
	if err != nil {
		return o.fail(ctx, src, ReasonUnsupportedFormat)
	}

	points, err := parser.ParseTrack(bytes.NewReader(data))
	if err != nil {
		return o.fail(ctx, src, classify(err))
	}

	metrics, err := track.ExtractMetrics(points, o.opts)
	if err != nil {
		return o.fail(ctx, src, classify(err))
	}

	// Single UPDATE swaps the route's authoritative metrics atomically;
	// readers see either the previous metrics or these, never a mix.
	center := metrics.Bounds.Center()
	_, err = o.db.Exec(ctx, `
		UPDATE routes
		SET distance_m=$2, elevation_gain_m=$3, duration_s=$4,
		    min_lat=$5, min_lng=$6, max_lat=$7, max_lng=$8,
		    center_lat=$9, center_lng=$10,
		    polyline=$11, point_count=$12, current_source_id=$13
		WHERE id=$1
	`, src.RouteID, metrics.DistanceMeters, metrics.ElevationGainMeters, metrics.DurationSeconds,
		metrics.Bounds.MinLat, metrics.Bounds.MinLng, metrics.Bounds.MaxLat, metrics.Bounds.MaxLng,
		center.Lat, center.Lng, metrics.EncodedPolyline, metrics.PointCount, src.ID)
	if err != nil {
		return src, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	_, err = o.db.Exec(ctx, `
		UPDATE route_sources SET parse_status='PARSED', parsed_at=now(), parser_version=$2
		WHERE id=$1 AND parse_status='PARSING'
	`, src.ID, ParserVersion)
	if err != nil {
		return src, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	src.ParseStatus = StatusParsed
	version := ParserVersion
	src.ParserVersion = &version
	now := time.Now()
	src.ParsedAt = &now
	o.notify(src)
	return src, nil
}

func (o *Orchestrator) fail(ctx context.Context, src RouteSource, reason string) (RouteSource, error) {
	_, err := o.db.Exec(ctx, `
		UPDATE route_sources SET parse_status='FAILED', parse_error=$2, parsed_at=now()
		WHERE id=$1 AND parse_status='PARSING'
	`, src.ID, reason)
	if err != nil {
		return src, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	src.ParseStatus = StatusFailed
	src.ParseError = &reason
	now := time.Now()
	src.ParsedAt = &now
	o.notify(src)
	return src, nil
}

func (o *Orchestrator) notify(src RouteSource) {
	if o.hub == nil {
		return
	}
	o.hub.BroadcastEvent(stream.Event{
		SourceID: src.ID,
		RouteID:  src.RouteID,
		Status:   string(src.ParseStatus),
		Error:    src.ParseError,
	})
}

func classify(err error) string {
	switch {
	case errors.Is(err, track.ErrEmptyTrack):
		return ReasonEmptyTrack
	case errors.Is(err, track.ErrUnsupportedFormat):
		return ReasonUnsupportedFormat
	default:
		return ReasonInvalidGPX
	}
}
