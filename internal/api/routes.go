package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/shop-api/internal/api/middleware"
)

// Handlers groups the handlers mounted by RegisterRoutes.
type Handlers struct {
	Accounts *AccountHandler
	Carts    *CartHandler
	Products *ProductHandler
}

// RegisterRoutes mounts the /api routes on r. Routes with a JSON body require
// application/json; every /api/users route except register and login requires
// a bearer token.
func RegisterRoutes(r chi.Router, h Handlers, auth *middleware.AuthMiddleware) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RequireJSON).Post("/", h.Accounts.Register)
			r.With(middleware.RequireJSON).Post("/login", h.Accounts.Login)

			// Expired but still-held tokens may log out or be renewed.
			r.Group(func(r chi.Router) {
				r.Use(auth.AuthenticateAllowExpired)
				r.Delete("/logout", h.Accounts.Logout)
				r.Post("/extend", h.Accounts.RenewToken)
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Get("/me", h.Accounts.GetProfile)

				r.With(middleware.RequireJSON).Post("/cart", h.Carts.AddToCart)
				r.Get("/cart", h.Carts.GetCart)
				r.With(middleware.RequireJSON).Patch("/cart", h.Carts.EditCart)
				r.Post("/checkout", h.Carts.Checkout)
				r.Get("/orders", h.Carts.GetOrders)
				r.Get("/orders/all", h.Carts.GetAllOrders)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.ListProducts)
			r.Get("/{id}", h.Products.GetProduct)
			r.With(auth.Authenticate, middleware.RequireJSON).Post("/", h.Products.CreateProduct)
		})
	})
}
