package route

import (
	"strconv"
	"strings"

	"backend-trailmarket/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		filters, err := filtersFromQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		result, err := svc.ListPublic(c.Context(), filters, page, limit, c.Query("sort", "recent"), c.Query("order"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(result)
	})

	r.Get("/meta", func(c *fiber.Ctx) error {
		filters, err := filtersFromQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		meta, err := svc.FiltersMeta(c.Context(), filters)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(meta)
	})

	r.Get("/:slug", func(c *fiber.Ctx) error {
		details, err := svc.FindPublicBySlug(c.Context(), c.Params("slug"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if details == nil {
			return fiber.NewError(fiber.StatusNotFound, "route not found")
		}
		return c.JSON(details)
	})
}

func filtersFromQuery(c *fiber.Ctx) (PublicFilters, error) {
	f := PublicFilters{
		Query:      c.Query("q"),
		Sport:      c.Query("sport"),
		Difficulty: c.Query("difficulty"),
		RouteType:  c.Query("route_type"),
	}

	if bbox := c.Query("bbox"); bbox != "" {
		parts := strings.Split(bbox, ",")
		if len(parts) != 4 {
			return PublicFilters{}, fiber.NewError(fiber.StatusBadRequest, "bbox must be minLng,minLat,maxLng,maxLat")
		}
		vals := make([]float64, 4)
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return PublicFilters{}, fiber.NewError(fiber.StatusBadRequest, "bbox must be numeric")
			}
			vals[i] = v
		}
		f.BBox = &geo.Bounds{MinLng: vals[0], MinLat: vals[1], MaxLng: vals[2], MaxLat: vals[3]}
	}

	var err error
	if f.MinDistanceM, err = floatParam(c, "min_distance_m"); err != nil {
		return PublicFilters{}, err
	}
	if f.MaxDistanceM, err = floatParam(c, "max_distance_m"); err != nil {
		return PublicFilters{}, err
	}
	if f.MinGainM, err = floatParam(c, "min_gain_m"); err != nil {
		return PublicFilters{}, err
	}
	if f.MaxGainM, err = floatParam(c, "max_gain_m"); err != nil {
		return PublicFilters{}, err
	}
	if f.MinDurationS, err = intParam(c, "min_duration_s"); err != nil {
		return PublicFilters{}, err
	}
	if f.MaxDurationS, err = intParam(c, "max_duration_s"); err != nil {
		return PublicFilters{}, err
	}

	return f, nil
}

func floatParam(c *fiber.Ctx, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, name+" must be numeric")
	}
	return &v, nil
}

func intParam(c *fiber.Ctx, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, name+" must be an integer")
	}
	return &v, nil
}
