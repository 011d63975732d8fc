package calibration

import (
	"errors"
	"time"

	"backend-stridelog/internal/gps"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, rec *Recorder, authMiddleware fiber.Handler) {
	r.Post("/walks/start", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		return c.Status(fiber.StatusCreated).JSON(rec.Start(userID))
	})

	r.Post("/walks/fixes", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Lat       float64   `json:"lat"`
			Lng       float64   `json:"lng"`
			AccuracyM float64   `json:"accuracy_m"`
			Timestamp time.Time `json:"timestamp"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Timestamp.IsZero() {
			body.Timestamp = time.Now()
		}

		userID, _ := c.Locals("user_id").(string)
		status, err := rec.Ingest(userID, gps.Coordinate{
			Lat:       body.Lat,
			Lng:       body.Lng,
			AccuracyM: body.AccuracyM,
			Timestamp: body.Timestamp,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(status)
	})

	r.Post("/walks/complete", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			ActivityType  string `json:"activity_type"`
			ReportedSteps int    `json:"reported_steps"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		userID, _ := c.Locals("user_id").(string)
		distanceM, worstAccuracyM, err := rec.Complete(userID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}

		profile, err := svc.Save(c.Context(), userID, body.ActivityType, distanceM, body.ReportedSteps, worstAccuracyM)
		if errors.Is(err, ErrInputRejected) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(profile)
	})

	r.Delete("/walks", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		rec.Cancel(userID)
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/profiles", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		profiles, err := svc.Profiles(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(profiles)
	})

	r.Get("/active", authMiddleware, func(c *fiber.Ctx) error {
		activityType := c.Query("type", TypeWalking)
		userID, _ := c.Locals("user_id").(string)
		profile, err := svc.Active(c.Context(), userID, activityType)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "no calibration profile")
		}
		return c.JSON(profile)
	})

	r.Delete("/profiles/:id", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Delete(c.Context(), userID, c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
