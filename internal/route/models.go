package route

import (
	"time"

	"backend-trailmarket/internal/shared/geo"
)

// PublicFilters is the immutable filter set for public route queries.
// Nil/empty fields are unset; numeric ranges are inclusive on both ends.
type PublicFilters struct {
	BBox       *geo.Bounds
	Query      string
	Sport      string
	Difficulty string
	RouteType  string
	Visibility string

	MinDistanceM *float64
	MaxDistanceM *float64
	MinGainM     *float64
	MaxGainM     *float64
	MinDurationS *int64
	MaxDurationS *int64
}

type PublicSummary struct {
	ID                  string    `json:"id"`
	Slug                string    `json:"slug"`
	Title               string    `json:"title"`
	Sport               string    `json:"sport"`
	Difficulty          string    `json:"difficulty"`
	RouteType           string    `json:"route_type"`
	DistanceMeters      float64   `json:"distance_meters"`
	ElevationGainMeters float64   `json:"elevation_gain_meters"`
	DurationSeconds     *int64    `json:"duration_seconds,omitempty"`
	EncodedPolyline     string    `json:"encoded_polyline"`
	CenterLat           float64   `json:"center_lat"`
	CenterLng           float64   `json:"center_lng"`
	CreatedAt           time.Time `json:"created_at"`
}

type PublicDetails struct {
	PublicSummary
	Description string     `json:"description"`
	Bounds      geo.Bounds `json:"bounds"`
	PointCount  int        `json:"point_count"`
	CreatedBy   string     `json:"created_by"`
}

type Paginated struct {
	Items []PublicSummary `json:"items"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int64           `json:"total"`
}

type SportFacet struct {
	Sport string `json:"sport"`
	Count int64  `json:"count"`
}

type RangeFacet struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FiltersMeta drives facet UIs: counts and observed ranges over the
// current result set, each dimension summarized with its own predicate
// excluded.
type FiltersMeta struct {
	Total    int64        `json:"total"`
	Sports   []SportFacet `json:"sports"`
	Distance RangeFacet   `json:"distance_meters"`
	Gain     RangeFacet   `json:"elevation_gain_meters"`
	Duration RangeFacet   `json:"duration_seconds"`
	BBox     geo.Bounds   `json:"bbox"`
}
