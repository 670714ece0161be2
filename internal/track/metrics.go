package track

import (
	"backend-trailmarket/internal/shared/geo"
)

// ParsedRouteData is the derived, immutable result of analyzing a track.
type ParsedRouteData struct {
	DistanceMeters      float64    `json:"distance_meters"`
	ElevationGainMeters float64    `json:"elevation_gain_meters"`
	DurationSeconds     *int64     `json:"duration_seconds,omitempty"`
	Bounds              geo.Bounds `json:"bounds"`
	EncodedPolyline     string     `json:"encoded_polyline"`
	PointCount          int        `json:"point_count"`
}

type MetricsOptions struct {
	ElevationNoiseM    float64
	SimplifyToleranceM float64
}

func DefaultMetricsOptions() MetricsOptions {
	return MetricsOptions{ElevationNoiseM: 1.0, SimplifyToleranceM: 10.0}
}

// ExtractMetrics derives route metrics from an ordered trackpoint
// sequence. Duration is only reported when every point carries a
// timestamp; it is never guessed. Fewer than 2 points is an ErrEmptyTrack.
func ExtractMetrics(points []Trackpoint, opts MetricsOptions) (ParsedRouteData, error) {
	if len(points) < 2 {
		return ParsedRouteData{}, ErrEmptyTrack
	}

	coords := make([]geo.Coordinate, len(points))
	elevations := make([]*float64, len(points))
	timestamped := true
	for i, p := range points {
		coords[i] = geo.Coordinate{Lat: p.Lat, Lng: p.Lng}
		elevations[i] = p.ElevationM
		if p.Time == nil {
			timestamped = false
		}
	}

	bounds, err := geo.BoundingBox(coords)
	if err != nil {
		return ParsedRouteData{}, err
	}

	data := ParsedRouteData{
		DistanceMeters:      geo.PathDistance(coords),
		ElevationGainMeters: geo.ElevationGain(elevations, opts.ElevationNoiseM),
		Bounds:              bounds,
		EncodedPolyline:     geo.EncodePolyline(geo.Simplify(coords, opts.SimplifyToleranceM)),
		PointCount:          len(points),
	}

	if timestamped {
		secs := int64(points[len(points)-1].Time.Sub(*points[0].Time).Seconds())
		if secs < 0 {
			secs = 0
		}
		data.DurationSeconds = &secs
	}

	return data, nil
}
