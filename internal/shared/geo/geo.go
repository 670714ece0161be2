package geo

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
	"github.com/twpayne/go-polyline"
)

// Mean Earth radius in meters (IUGG).
const earthRadiusM = 6371008.8

// Approximate meters per degree of latitude, used to convert a metric
// simplification tolerance into the degree space orb operates in.
const metersPerDegree = 111320.0

var ErrNoPoints = errors.New("no points")

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

func (b Bounds) Center() Coordinate {
	return Coordinate{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}

// Haversine returns the great-circle distance in meters between two
// coordinates. Identical coordinates yield exactly 0.
func Haversine(a, b Coordinate) float64 {
	if a == b {
		return 0
	}
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusM * math.Asin(math.Min(1, math.Sqrt(h)))
}

// PathDistance accumulates Haversine over consecutive coordinates.
func PathDistance(coords []Coordinate) float64 {
	var total float64
	for i := 1; i < len(coords); i++ {
		total += Haversine(coords[i-1], coords[i])
	}
	return total
}

// ElevationGain sums positive elevation deltas between consecutive known
// elevations, discarding deltas below noiseFloor so GPS/barometric jitter
// does not inflate the total. Nil entries are skipped; the delta bridges
// across them to the nearest known elevation.
func ElevationGain(elevations []*float64, noiseFloor float64) float64 {
	var gain float64
	var last *float64
	for _, e := range elevations {
		if e == nil {
			continue
		}
		if last != nil {
			if d := *e - *last; d >= noiseFloor {
				gain += d
			}
		}
		last = e
	}
	return gain
}

// BoundingBox returns the axis-aligned bounds of the coordinates.
func BoundingBox(coords []Coordinate) (Bounds, error) {
	if len(coords) == 0 {
		return Bounds{}, ErrNoPoints
	}
	b := lineString(coords).Bound()
	return Bounds{
		MinLat: b.Min[1],
		MinLng: b.Min[0],
		MaxLat: b.Max[1],
		MaxLng: b.Max[0],
	}, nil
}

// Simplify reduces the coordinate sequence with Douglas-Peucker,
// preserving the endpoints. toleranceM is in meters.
func Simplify(coords []Coordinate, toleranceM float64) []Coordinate {
	if len(coords) <= 2 || toleranceM <= 0 {
		return coords
	}
	ls := simplify.DouglasPeucker(toleranceM / metersPerDegree).LineString(lineString(coords))
	out := make([]Coordinate, len(ls))
	for i, p := range ls {
		out[i] = Coordinate{Lat: p[1], Lng: p[0]}
	}
	return out
}

// EncodePolyline encodes coordinates as a Google polyline string with
// 1e-5 degree precision.
func EncodePolyline(coords []Coordinate) string {
	pairs := make([][]float64, len(coords))
	for i, c := range coords {
		pairs[i] = []float64{c.Lat, c.Lng}
	}
	return string(polyline.EncodeCoords(pairs))
}

// DecodePolyline reverses EncodePolyline within the encoding precision.
func DecodePolyline(encoded string) ([]Coordinate, error) {
	pairs, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	coords := make([]Coordinate, len(pairs))
	for i, p := range pairs {
		coords[i] = Coordinate{Lat: p[0], Lng: p[1]}
	}
	return coords, nil
}

func lineString(coords []Coordinate) orb.LineString {
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = orb.Point{c.Lng, c.Lat}
	}
	return ls
}
