package source

import (
	"errors"
	"strings"

	"backend-trailmarket/internal/track"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/:routeID/sources", authMiddleware, func(c *fiber.Ctx) error {
		body := c.Body()
		if len(body) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "file body required")
		}

		format := track.Format(strings.ToLower(c.Query("format", string(track.FormatGPX))))
		filename := c.Query("filename", "upload."+string(format))

		src, err := svc.Ingest(c.Context(), c.Params("routeID"), format, filename, c.Get(fiber.HeaderContentType), body)
		if err != nil {
			if errors.Is(err, ErrFileTooLarge) {
				return fiber.NewError(fiber.StatusRequestEntityTooLarge, ReasonFileTooLarge)
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(src)
	})

	r.Get("/:routeID/sources", authMiddleware, func(c *fiber.Ctx) error {
		sources, err := svc.History(c.Context(), c.Params("routeID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if sources == nil {
			sources = []RouteSource{}
		}
		return c.JSON(sources)
	})
}
