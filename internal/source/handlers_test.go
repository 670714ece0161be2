package source

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func passThrough(c *fiber.Ctx) error { return c.Next() }

func TestUploadHandler(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO route_sources`).
		WithArgs(pgxmock.AnyArg(), "route-1", "gpx", "trail.gpx", "application/gpx+xml",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "PENDING").
		WillReturnRows(pgxmock.NewRows([]string{"uploaded_at"}).AddRow(time.Now()))

	app := fiber.New()
	RegisterRoutes(app.Group("/routes"), NewService(mock, testStore(t), nil, 0), passThrough)

	req := httptest.NewRequest(http.MethodPost, "/routes/route-1/sources?format=gpx&filename=trail.gpx",
		bytes.NewReader([]byte("<gpx></gpx>")))
	req.Header.Set("Content-Type", "application/gpx+xml")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var src RouteSource
	if err := json.NewDecoder(resp.Body).Decode(&src); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if src.ParseStatus != StatusPending {
		t.Fatalf("expected PENDING, got %s", src.ParseStatus)
	}
	if src.RouteID != "route-1" {
		t.Fatalf("expected route id")
	}
}

func TestUploadHandlerEmptyBody(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/routes"), NewService(nil, nil, nil, 0), passThrough)

	req := httptest.NewRequest(http.MethodPost, "/routes/route-1/sources", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUploadHandlerTooLarge(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/routes"), NewService(nil, nil, nil, 2), passThrough)

	req := httptest.NewRequest(http.MethodPost, "/routes/route-1/sources",
		bytes.NewReader([]byte("more than two bytes")))
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
}

func TestHistoryHandlerEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, route_id, format`).
		WithArgs("route-1").
		WillReturnRows(sourceRows())

	app := fiber.New()
	RegisterRoutes(app.Group("/routes"), NewService(mock, nil, nil, 0), passThrough)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/routes/route-1/sources", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var sources []RouteSource
	if err := json.NewDecoder(resp.Body).Decode(&sources); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sources == nil || len(sources) != 0 {
		t.Fatalf("expected empty array, got %v", sources)
	}
}
