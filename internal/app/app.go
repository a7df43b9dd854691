// Package app assembles the services and the Fiber application.
package app

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"luxe/internal/config"
	"luxe/internal/handlers"
	"luxe/internal/middleware"
	"luxe/internal/repositories"
	"luxe/internal/services"
)

// Services is every service the HTTP layer depends on.
type Services struct {
	Auth      *services.AuthService
	Resets    *services.PasswordResetService
	Products  *services.ProductService
	Carts     *services.CartService
	Payments  *services.PaymentService
	Customers *services.CustomerService
	Analytics *services.AnalyticsService
}

// NewServices wires repositories over db into the services.
func NewServices(cfg *config.Config, db *gorm.DB, gateway services.PaymentGateway, publisher services.EventPublisher, storage services.FileStorage) *Services {
	repos := repositories.NewGORMRepositories(db)
	uow := repositories.NewGORMUnitOfWork(db)

	tokens := services.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	carts := services.NewCartService(uow, repos.Carts, publisher)

	return &Services{
		Auth:      services.NewAuthService(repos.Users, tokens, storage, cfg.IsAdminUsername),
		Resets:    services.NewPasswordResetService(uow, repos.Users, publisher, cfg.ResetTokenTTL, cfg.ResetURL),
		Products:  services.NewProductService(repos.Products),
		Carts:     carts,
		Payments:  services.NewPaymentService(uow, repos.Carts, repos.Payments, carts, gateway, publisher, cfg.Currency),
		Customers: services.NewCustomerService(repos.Users, repos.Carts, repos.Payments),
		Analytics: services.NewAnalyticsService(repos.Users, repos.Payments),
	}
}

// New builds the Fiber application with every route under /api/v1.
func New(cfg *config.Config, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    10 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	app.Static("/uploads", cfg.UploadDir)

	authRequired := middleware.AuthRequired(svc.Auth)
	adminRequired := middleware.AdminRequired()

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/healthcheck", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	cookies := handlers.CookieConfig{
		Secure:     cfg.CookieSecure,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}
	handlers.NewAuthHandler(svc.Auth, svc.Resets, cookies).RegisterRoutes(apiV1, authRequired)
	handlers.NewAdminHandler(svc.Customers, svc.Analytics).RegisterRoutes(apiV1, authRequired, adminRequired)
	handlers.NewProductHandler(svc.Products).RegisterRoutes(apiV1, authRequired, adminRequired)
	handlers.NewCartHandler(svc.Carts).RegisterRoutes(apiV1, authRequired)
	handlers.NewPaymentHandler(svc.Payments).RegisterRoutes(apiV1, authRequired, adminRequired)

	return app
}
