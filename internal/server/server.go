package server

import (
	"time"

	"backend-stridelog/internal/activity"
	"backend-stridelog/internal/auth"
	"backend-stridelog/internal/calibration"
	"backend-stridelog/internal/config"
	"backend-stridelog/internal/goal"
	"backend-stridelog/internal/gps"
	"backend-stridelog/internal/session"
	"backend-stridelog/internal/stats"
	"backend-stridelog/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Stream   *stream.Hub
	Sessions *session.Manager
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	hub := stream.NewHub(redisClient)
	activities := activity.NewService(db)

	filter := gps.FilterConfig{MinDeltaM: cfg.GPSMinDeltaM, MaxDeltaM: cfg.GPSMaxDeltaM}
	if filter.MaxDeltaM <= filter.MinDeltaM {
		filter = gps.DefaultFilterConfig()
	}

	s := &Server{
		App:      app,
		Cfg:      cfg,
		DB:       db,
		Redis:    redisClient,
		Stream:   hub,
		Sessions: session.NewManager(activities, hub, nil, filter),
	}

	registerRoutes(s, activities, filter)
	return s
}

func registerRoutes(s *Server, activities *activity.Service, filter gps.FilterConfig) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	goals := goal.NewService(s.DB)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	session.RegisterRoutes(s.App.Group("/sessions"), s.Sessions, goals, jwtMiddleware)
	activity.RegisterRoutes(s.App.Group("/activities"), activities, jwtMiddleware)
	// Calibration walks share the session filter so both measure distance
	// the same way.
	calibration.RegisterRoutes(s.App.Group("/calibration"), calibration.NewService(s.DB), calibration.NewRecorder(filter), jwtMiddleware)
	goal.RegisterRoutes(s.App.Group("/goals"), goals, jwtMiddleware)
	stats.RegisterRoutes(s.App.Group("/stats"), stats.NewService(s.DB, statsLocation(s.Cfg)), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}

// statsLocation resolves the timezone used for day bucketing. Streaks and
// personality follow the user's wall clock, so an unresolvable zone falls
// back to the server's local time rather than UTC.
func statsLocation(cfg config.Config) *time.Location {
	if cfg.Timezone == "" || cfg.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
