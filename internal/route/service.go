package route

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backend-trailmarket/internal/db"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(querier db.Querier) *Service {
	return &Service{db: querier}
}

var sortColumns = map[string]string{
	"recent":   "r.created_at",
	"distance": "r.distance_m",
	"gain":     "r.elevation_gain_m",
	"duration": "r.duration_s",
}

// conditions renders the filter set as SQL predicates. Only routes that
// are enabled and carry metrics from a PARSED source are ever visible.
func (f PublicFilters) conditions() ([]string, []any) {
	conds := []string{"r.is_enabled", "r.current_source_id IS NOT NULL"}
	var args []any

	visibility := f.Visibility
	if visibility == "" {
		visibility = "public"
	}
	args = append(args, visibility)
	conds = append(conds, fmt.Sprintf("r.visibility = $%d", len(args)))

	if f.BBox != nil {
		args = append(args, f.BBox.MinLng)
		conds = append(conds, fmt.Sprintf("r.center_lng >= $%d", len(args)))
		args = append(args, f.BBox.MaxLng)
		conds = append(conds, fmt.Sprintf("r.center_lng <= $%d", len(args)))
		args = append(args, f.BBox.MinLat)
		conds = append(conds, fmt.Sprintf("r.center_lat >= $%d", len(args)))
		args = append(args, f.BBox.MaxLat)
		conds = append(conds, fmt.Sprintf("r.center_lat <= $%d", len(args)))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		conds = append(conds, fmt.Sprintf("r.title ILIKE $%d", len(args)))
	}
	if f.Sport != "" {
		args = append(args, f.Sport)
		conds = append(conds, fmt.Sprintf("r.sport = $%d", len(args)))
	}
	if f.Difficulty != "" {
		args = append(args, f.Difficulty)
		conds = append(conds, fmt.Sprintf("r.difficulty = $%d", len(args)))
	}
	if f.RouteType != "" {
		args = append(args, f.RouteType)
		conds = append(conds, fmt.Sprintf("r.route_type = $%d", len(args)))
	}
	if f.MinDistanceM != nil {
		args = append(args, *f.MinDistanceM)
		conds = append(conds, fmt.Sprintf("r.distance_m >= $%d", len(args)))
	}
	if f.MaxDistanceM != nil {
		args = append(args, *f.MaxDistanceM)
		conds = append(conds, fmt.Sprintf("r.distance_m <= $%d", len(args)))
	}
	if f.MinGainM != nil {
		args = append(args, *f.MinGainM)
		conds = append(conds, fmt.Sprintf("r.elevation_gain_m >= $%d", len(args)))
	}
	if f.MaxGainM != nil {
		args = append(args, *f.MaxGainM)
		conds = append(conds, fmt.Sprintf("r.elevation_gain_m <= $%d", len(args)))
	}
	if f.MinDurationS != nil {
		args = append(args, *f.MinDurationS)
		conds = append(conds, fmt.Sprintf("r.duration_s >= $%d", len(args)))
	}
	if f.MaxDurationS != nil {
		args = append(args, *f.MaxDurationS)
		conds = append(conds, fmt.Sprintf("r.duration_s <= $%d", len(args)))
	}

	return conds, args
}

// ListPublic returns one page of visible routes. Pages are 1-indexed; a
// page past the end yields an empty item list. Ordering is stable: the
// sort key is always tie-broken by id so pagination is deterministic.
func (s *Service) ListPublic(ctx context.Context, f PublicFilters, page, limit int, sort, order string) (Paginated, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	col, ok := sortColumns[sort]
	if !ok {
		sort = "recent"
		col = sortColumns[sort]
	}
	dir := "ASC"
	if order == "desc" || (order == "" && sort == "recent") {
		dir = "DESC"
	}

	conds, args := f.conditions()
	where := "WHERE " + strings.Join(conds, " AND ")

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM routes r `+where, args...).Scan(&total); err != nil {
		return Paginated{}, err
	}

	args = append(args, limit)
	limitPos := len(args)
	args = append(args, (page-1)*limit)
	offsetPos := len(args)

	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.slug, r.title, r.sport, r.difficulty, r.route_type,
		       r.distance_m, r.elevation_gain_m, r.duration_s, r.polyline,
		       r.center_lat, r.center_lng, r.created_at
		FROM routes r `+where+`
		ORDER BY `+col+` `+dir+`, r.id ASC
		LIMIT $`+fmt.Sprint(limitPos)+` OFFSET $`+fmt.Sprint(offsetPos), args...)
	if err != nil {
		return Paginated{}, err
	}
	defer rows.Close()

	items := []PublicSummary{}
	for rows.Next() {
		var r PublicSummary
		if err := rows.Scan(&r.ID, &r.Slug, &r.Title, &r.Sport, &r.Difficulty, &r.RouteType,
			&r.DistanceMeters, &r.ElevationGainMeters, &r.DurationSeconds, &r.EncodedPolyline,
			&r.CenterLat, &r.CenterLng, &r.CreatedAt); err != nil {
			return Paginated{}, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return Paginated{}, err
	}

	return Paginated{Items: items, Page: page, Limit: limit, Total: total}, nil
}

// FindPublicBySlug looks a visible route up by exact, case-sensitive
// slug. Missing or hidden routes return (nil, nil).
func (s *Service) FindPublicBySlug(ctx context.Context, slug string) (*PublicDetails, error) {
	row := s.db.QueryRow(ctx, `
		SELECT r.id, r.slug, r.title, r.sport, r.difficulty, r.route_type,
		       r.distance_m, r.elevation_gain_m, r.duration_s, r.polyline,
		       r.center_lat, r.center_lng, r.created_at,
		       r.description, r.min_lat, r.min_lng, r.max_lat, r.max_lng,
		       r.point_count, r.created_by
		FROM routes r
		WHERE r.slug = $1 AND r.visibility = 'public' AND r.is_enabled AND r.current_source_id IS NOT NULL
	`, slug)

	var d PublicDetails
	err := row.Scan(&d.ID, &d.Slug, &d.Title, &d.Sport, &d.Difficulty, &d.RouteType,
		&d.DistanceMeters, &d.ElevationGainMeters, &d.DurationSeconds, &d.EncodedPolyline,
		&d.CenterLat, &d.CenterLng, &d.CreatedAt,
		&d.Description, &d.Bounds.MinLat, &d.Bounds.MinLng, &d.Bounds.MaxLat, &d.Bounds.MaxLng,
		&d.PointCount, &d.CreatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FiltersMeta aggregates facet data over the filtered result set. Each
// summarized dimension excludes its own predicate: sport counts ignore
// the sport filter, numeric ranges and the aggregate bbox ignore the
// numeric range filters.
func (s *Service) FiltersMeta(ctx context.Context, f PublicFilters) (FiltersMeta, error) {
	var meta FiltersMeta

	sportFilters := f
	sportFilters.Sport = ""
	conds, args := sportFilters.conditions()
	rows, err := s.db.Query(ctx, `
		SELECT r.sport, COUNT(*)
		FROM routes r WHERE `+strings.Join(conds, " AND ")+`
		GROUP BY r.sport ORDER BY r.sport
	`, args...)
	if err != nil {
		return FiltersMeta{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var facet SportFacet
		if err := rows.Scan(&facet.Sport, &facet.Count); err != nil {
			return FiltersMeta{}, err
		}
		meta.Sports = append(meta.Sports, facet)
	}
	if err := rows.Err(); err != nil {
		return FiltersMeta{}, err
	}

	rangeFilters := f
	rangeFilters.MinDistanceM, rangeFilters.MaxDistanceM = nil, nil
	rangeFilters.MinGainM, rangeFilters.MaxGainM = nil, nil
	rangeFilters.MinDurationS, rangeFilters.MaxDurationS = nil, nil
	conds, args = rangeFilters.conditions()
	row := s.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(MIN(r.distance_m),0), COALESCE(MAX(r.distance_m),0),
		       COALESCE(MIN(r.elevation_gain_m),0), COALESCE(MAX(r.elevation_gain_m),0),
		       COALESCE(MIN(r.duration_s),0), COALESCE(MAX(r.duration_s),0),
		       COALESCE(MIN(r.min_lat),0), COALESCE(MIN(r.min_lng),0),
		       COALESCE(MAX(r.max_lat),0), COALESCE(MAX(r.max_lng),0)
		FROM routes r WHERE `+strings.Join(conds, " AND "), args...)
	if err := row.Scan(&meta.Total,
		&meta.Distance.Min, &meta.Distance.Max,
		&meta.Gain.Min, &meta.Gain.Max,
		&meta.Duration.Min, &meta.Duration.Max,
		&meta.BBox.MinLat, &meta.BBox.MinLng,
		&meta.BBox.MaxLat, &meta.BBox.MaxLng); err != nil {
		return FiltersMeta{}, err
	}

	return meta, nil
}
