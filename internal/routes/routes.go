package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/mkolesnikov/titledb/internal/config"
	"github.com/mkolesnikov/titledb/internal/handlers"
	"github.com/mkolesnikov/titledb/internal/middleware"
)

// Setup mounts the full API surface. Reads on the catalog and on
// reviews/comments are public; every mutation goes through JWT + identity
// loading, with the fine-grained decision left to the permission evaluator
// inside the handlers.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	catalogHandler *handlers.CatalogHandler,
	titleHandler *handlers.TitleHandler,
	reviewHandler *handlers.ReviewHandler,
	commentHandler *handlers.CommentHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	v1 := api.Group("/v1")

	v1.Get("/health", healthHandler.Check)

	protect := middleware.JWTProtected(cfg)
	identify := middleware.LoadIdentity(db)

	// Auth — signup/token/refresh are public, with a stricter rate limit.
	auth := v1.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/token", authHandler.Token)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", protect, identify, authHandler.Logout)

	// Catalog classifiers
	v1.Get("/categories", catalogHandler.ListCategories)
	v1.Post("/categories", protect, identify, catalogHandler.CreateCategory)
	v1.Delete("/categories/:slug", protect, identify, catalogHandler.DeleteCategory)

	v1.Get("/genres", catalogHandler.ListGenres)
	v1.Post("/genres", protect, identify, catalogHandler.CreateGenre)
	v1.Delete("/genres/:slug", protect, identify, catalogHandler.DeleteGenre)

	// Titles
	v1.Get("/titles", titleHandler.List)
	v1.Post("/titles", protect, identify, titleHandler.Create)
	v1.Get("/titles/:titleID", titleHandler.Get)
	v1.Patch("/titles/:titleID", protect, identify, titleHandler.Update)
	v1.Delete("/titles/:titleID", protect, identify, titleHandler.Delete)

	// Reviews nested under titles
	v1.Get("/titles/:titleID/reviews", reviewHandler.List)
	v1.Post("/titles/:titleID/reviews", protect, identify, reviewHandler.Create)
	v1.Get("/titles/:titleID/reviews/:reviewID", reviewHandler.Get)
	v1.Patch("/titles/:titleID/reviews/:reviewID", protect, identify, reviewHandler.Update)
	v1.Delete("/titles/:titleID/reviews/:reviewID", protect, identify, reviewHandler.Delete)

	// Comments nested under title/review pairs
	v1.Get("/titles/:titleID/reviews/:reviewID/comments", commentHandler.List)
	v1.Post("/titles/:titleID/reviews/:reviewID/comments", protect, identify, commentHandler.Create)
	v1.Get("/titles/:titleID/reviews/:reviewID/comments/:commentID", commentHandler.Get)
	v1.Patch("/titles/:titleID/reviews/:reviewID/comments/:commentID", protect, identify, commentHandler.Update)
	v1.Delete("/titles/:titleID/reviews/:reviewID/comments/:commentID", protect, identify, commentHandler.Delete)

	// Accounts — /users/me must be registered before /users/:username
	v1.Get("/users/me", protect, identify, userHandler.GetMe)
	v1.Patch("/users/me", protect, identify, userHandler.UpdateMe)
	v1.Delete("/users/me", protect, identify, userHandler.DeleteMe)

	v1.Get("/users", protect, identify, userHandler.List)
	v1.Get("/users/:username", protect, identify, userHandler.Get)
	v1.Patch("/users/:username", protect, identify, userHandler.Update)
	v1.Delete("/users/:username", protect, identify, userHandler.Delete)
}
