// Package routes wires services to HTTP endpoints. Dependencies are
// constructed here once, at startup, and injected down; no package keeps
// ambient global state.
package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"cardvault/internal/handlers"
	"cardvault/internal/middleware"
	"cardvault/internal/repositories"
	"cardvault/internal/repositories/cache"
	"cardvault/internal/services/auth"
	"cardvault/internal/services/giftcard"
	"cardvault/internal/services/ledger"
	"cardvault/internal/services/supplier"
)

// Deps carries everything SetupRoutes needs.
type Deps struct {
	Store     repositories.Store
	Cache     giftcard.Cache
	JWTSecret string
	Logger    zerolog.Logger
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Deps) {
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}

	authService := auth.NewService(deps.Store, deps.JWTSecret)
	ledgerService := ledger.NewService(deps.Store, deps.Cache, deps.Logger)
	cardService := giftcard.NewService(deps.Store, deps.Cache, deps.Logger)
	supplierService := supplier.NewService(deps.Store)

	authHandler := handlers.NewAuthHandler(authService)
	txHandler := handlers.NewTransactionHandler(ledgerService)
	cardHandler := handlers.NewGiftCardHandler(cardService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	tagHandler := handlers.NewTagHandler(deps.Store)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	authMW := middleware.NewAuthMiddleware(authService)
	protected := api.Group("", authMW.Handler)

	cards := protected.Group("/gift-cards")
	cards.Post("/", middleware.RequirePermission("giftcards.create"), cardHandler.Create)
	cards.Get("/", cardHandler.List)
	cards.Get("/:id", cardHandler.Get)
	cards.Put("/:id", middleware.RequirePermission("giftcards.update"), cardHandler.Update)
	cards.Delete("/:id", middleware.RequirePermission("giftcards.delete"), cardHandler.Delete)
	cards.Post("/:id/tags/:tagId", cardHandler.AddTag)
	cards.Delete("/:id/tags/:tagId", cardHandler.RemoveTag)

	txs := protected.Group("/transactions")
	txs.Post("/", middleware.RequirePermission("transactions.create"), txHandler.Create)
	txs.Get("/", txHandler.List)
	txs.Get("/:id", txHandler.Get)
	txs.Put("/:id", middleware.RequirePermission("transactions.update"), txHandler.Update)
	txs.Delete("/:id", middleware.RequirePermission("transactions.delete"), txHandler.Delete)

	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", middleware.RequirePermission("suppliers.create"), supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.Get)
	suppliers.Put("/:id", middleware.RequirePermission("suppliers.update"), supplierHandler.Update)
	suppliers.Delete("/:id", middleware.RequirePermission("suppliers.delete"), supplierHandler.Delete)

	tags := protected.Group("/tags")
	tags.Post("/", tagHandler.Create)
	tags.Get("/", tagHandler.List)
	tags.Delete("/:id", tagHandler.Delete)
}
