package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/shop-api/internal/api"
	apiMiddleware "github.com/phrazzld/shop-api/internal/api/middleware"
)

// setupRouter creates the router with the standard middleware chain, the
// API routes and the health check.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	api.RegisterRoutes(r, api.Handlers{
		Accounts: api.NewAccountHandler(app.accountService, app.logger),
		Carts:    api.NewCartHandler(app.cartService, app.logger),
		Products: api.NewProductHandler(app.catalogService, app.logger),
	}, apiMiddleware.NewAuthMiddleware(app.accountService, app.logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
