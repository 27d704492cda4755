package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MutabPato/alx-travel-app-0x01/internal/transport/http/handler"
	"github.com/MutabPato/alx-travel-app-0x01/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Listing *handler.ListingHandler
	Booking *handler.BookingHandler
	Review  *handler.ReviewHandler
	Payment *handler.PaymentHandler
}

func RegisterRoutes(app *fiber.App, h *Handlers, accessSecret string) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.Refresh)

	app.Get("/listings", h.Listing.List)
	app.Get("/listings/:slug", h.Listing.GetBySlug)
	app.Get("/listings/:slug/reviews", h.Review.ListByListing)

	// Provider callback; the payment provider cannot authenticate.
	app.Get("/payments/verify-payment/:tx_ref", h.Payment.Verify)

	api := app.Group("/api", middleware.NewAuthMiddleware(accessSecret))
	api.Get("/me", h.Auth.GetMe)

	listings := api.Group("/listings")
	listings.Post("", h.Listing.Create)
	listings.Put("/:slug", h.Listing.Update)
	listings.Patch("/:slug", h.Listing.Update)
	listings.Delete("/:slug", h.Listing.Delete)
	listings.Post("/:slug/reviews", h.Review.Create)

	bookings := api.Group("/bookings")
	bookings.Post("", h.Booking.Create)
	bookings.Get("", h.Booking.List)
	bookings.Get("/:id", h.Booking.GetByID)
	bookings.Post("/:id/cancel", h.Booking.Cancel)

	payments := api.Group("/payments")
	payments.Post("/initialize-payment", h.Payment.Initialize)
}
