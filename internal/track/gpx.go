package track

import (
	"fmt"
	"io"

	"github.com/tkrajina/gpxgo/gpx"
)

// GPXParser decodes GPX 1.0/1.1 documents. Unknown extensions and extra
// fields are ignored by the underlying decoder. Bytes that are not
// well-formed GPX classify as ErrInvalidSourceFile, even when the upload
// declared another content type.
type GPXParser struct{}

func (GPXParser) Supports(f Format) bool { return f == FormatGPX }

func (GPXParser) ParseTrack(r io.Reader) ([]Trackpoint, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSourceFile, err)
	}

	var points []Trackpoint
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for i := range seg.Points {
				p := &seg.Points[i]
				tp := Trackpoint{Lat: p.Latitude, Lng: p.Longitude}
				if p.Elevation.NotNull() {
					e := p.Elevation.Value()
					tp.ElevationM = &e
				}
				if !p.Timestamp.IsZero() {
					ts := p.Timestamp
					tp.Time = &ts
				}
				points = append(points, tp)
			}
		}
	}

	if len(points) == 0 {
		return nil, ErrEmptyTrack
	}
	return points, nil
}
