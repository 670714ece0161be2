package server

import (
	"backend-trailmarket/internal/auth"
	"backend-trailmarket/internal/blob"
	"backend-trailmarket/internal/config"
	"backend-trailmarket/internal/route"
	"backend-trailmarket/internal/source"
	"backend-trailmarket/internal/stream"
	"backend-trailmarket/internal/track"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Blobs  blob.Store
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client, blobs blob.Store) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxUploadBytes) + 1024,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Blobs:  blobs,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	opts := track.MetricsOptions{
		ElevationNoiseM:    s.Cfg.ElevationNoiseM,
		SimplifyToleranceM: s.Cfg.SimplifyToleranceM,
	}
	orch := source.NewOrchestrator(s.DB, s.Blobs, track.DefaultRegistry(), s.Stream, opts)
	ingestion := source.NewService(s.DB, s.Blobs, orch, s.Cfg.MaxUploadBytes)

	routes := s.App.Group("/routes")
	route.RegisterRoutes(routes, route.NewService(s.DB))
	source.RegisterRoutes(routes, ingestion, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
