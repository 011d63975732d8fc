package goal

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Put("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Goal
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if !req.Type.Valid() || req.Target <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "valid type and positive target required")
		}
		req.UserID, _ = c.Locals("user_id").(string)
		if req.Date == "" {
			req.Date = PeriodFor(req.Type, time.Now())
		}
		g, err := svc.Upsert(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(g)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		t := Type(c.Query("type"))
		if !t.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "valid type required")
		}
		date := c.Query("date")
		if date == "" {
			date = PeriodFor(t, time.Now())
		}
		userID, _ := c.Locals("user_id").(string)
		g, err := svc.Get(c.Context(), userID, t, date)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "goal not found")
		}
		return c.JSON(g)
	})

	r.Get("/suggested", authMiddleware, func(c *fiber.Ctx) error {
		t := Type(c.Query("type"))
		if !t.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "valid type required")
		}
		userID, _ := c.Locals("user_id").(string)
		target, err := svc.Suggested(c.Context(), userID, t, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"type": t, "target": target})
	})
}
