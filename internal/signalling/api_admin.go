package signalling

import (
	"errors"
	"time"

	"github.com/cribwatch/relay/internal/api"
	"github.com/cribwatch/relay/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
)

func (s *Server) setupAdminApi() {
	s.app.Route("/api/admin", func(router fiber.Router) {
		router.Use(basicauth.New(basicauth.Config{
			Realm: "Forbidden",
			Authorizer: func(user, pass string) bool {
				credential := s.config.Get().Security.AdminCredential
				return credential == nil || user == "admin" && pass == *credential
			},
		}))

		router.Get("/rooms", func(c *fiber.Ctx) error {
			rooms, err := s.rooms.GetAll()
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Failed to list rooms")
			}
			return c.JSON(api.ToAdminRooms(rooms))
		})

		router.Post("/sweep", func(c *fiber.Ctx) error {
			threshold := time.Duration(s.config.Get().Rooms.IdleThresholdSec) * time.Second
			swept := s.rooms.SweepExpired(time.Now(), threshold)
			return c.JSON(fiber.Map{"swept": swept})
		})

		router.Delete("/rooms/:code", func(c *fiber.Ctx) error {
			err := s.rooms.ForceDelete(c.Params("code"))
			switch {
			case errors.Is(err, domain.ErrRoomNotFound):
				return c.Status(fiber.StatusNotFound).SendString("Room not found")
			case errors.Is(err, domain.ErrRoomNotEmpty):
				return c.Status(fiber.StatusConflict).SendString("Room still has members")
			case err != nil:
				return c.Status(fiber.StatusInternalServerError).SendString("Failed to delete room")
			}
			return c.SendStatus(fiber.StatusNoContent)
		})
	})
}
