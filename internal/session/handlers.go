package session

import (
	"context"
	"errors"
	"log"
	"time"

	"backend-stridelog/internal/activity"
	"backend-stridelog/internal/gps"

	"github.com/gofiber/fiber/v2"
)

// GoalApplier rolls a finished activity into goal progress.
type GoalApplier interface {
	ApplyActivity(ctx context.Context, act activity.Activity) error
}

func RegisterRoutes(r fiber.Router, mgr *Manager, goals GoalApplier, authMiddleware fiber.Handler) {
	r.Post("/start", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			ProfileID string `json:"profile_id"`
		}
		_ = c.BodyParser(&body)

		userID, _ := c.Locals("user_id").(string)
		snap, err := mgr.Start(c.Context(), userID, body.ProfileID)
		if errors.Is(err, ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(snap)
	})

	r.Post("/pause", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		snap, err := mgr.Pause(userID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(snap)
	})

	r.Post("/resume", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		snap, err := mgr.Resume(userID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(snap)
	})

	r.Post("/fixes", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Lat        float64   `json:"lat"`
			Lng        float64   `json:"lng"`
			AccuracyM  float64   `json:"accuracy_m"`
			ElevationM float64   `json:"elevation_m"`
			Timestamp  time.Time `json:"timestamp"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Timestamp.IsZero() {
			body.Timestamp = time.Now()
		}

		fix := gps.Coordinate{
			Lat:       body.Lat,
			Lng:       body.Lng,
			AccuracyM: body.AccuracyM,
			Timestamp: body.Timestamp,
		}
		userID, _ := c.Locals("user_id").(string)
		snap, err := mgr.RecordFix(c.Context(), userID, fix, body.ElevationM)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(snap)
	})

	r.Post("/steps", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Delta    int64 `json:"delta"`
			Absolute int64 `json:"absolute"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		userID, _ := c.Locals("user_id").(string)
		var snap Snapshot
		var err error
		if body.Absolute > 0 {
			snap, err = mgr.SetSteps(c.Context(), userID, body.Absolute)
		} else {
			snap, err = mgr.RecordSteps(c.Context(), userID, body.Delta)
		}
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(snap)
	})

	r.Post("/end", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		act, err := mgr.End(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if goals != nil {
			if err := goals.ApplyActivity(c.Context(), act); err != nil {
				// Goal progress is derived data; failing to roll it up
				// must not fail the end call.
				log.Printf("session %s: goal rollup failed: %v", act.ID, err)
			}
		}
		return c.JSON(act)
	})

	r.Get("/current", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		snap, err := mgr.Current(userID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(snap)
	})
}
