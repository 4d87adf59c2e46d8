package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bookit/internal/api"
	"bookit/internal/auth"
	"bookit/internal/booking"
	"bookit/internal/catalog"
	"bookit/internal/identity"
	"bookit/internal/partner"
	"bookit/internal/report"
	"bookit/internal/session"
	"bookit/pkg/config"
)

type Dependencies struct {
	Cfg      config.Config
	Stores   Stores
	Sessions *session.Issuer
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.CORSMiddleware(api.CORSOptions{
		AllowedOrigins: deps.Cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAgeSeconds:  600,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	identities := identity.NewService(deps.Stores.Identities, nil)
	catalogSvc := catalog.NewService(deps.Stores.Catalog)
	bookings := booking.NewManager(deps.Stores.Bookings, catalogSvc, deps.Stores.Audit, booking.Options{
		EnforceCapacity: deps.Cfg.EnforceCapacity,
	})

	authHandlers := auth.Handlers{Identities: identities, Sessions: deps.Sessions}
	catalogHandlers := catalog.Handlers{Catalog: catalogSvc}
	bookingHandlers := booking.Handlers{Bookings: bookings}
	reportHandlers := report.Handlers{Reports: report.NewService(bookings, catalogSvc)}
	partnerHandlers := partner.Handlers{Applications: partner.NewService(deps.Stores.Partners)}

	// v1
	r.Route("/v1", func(r chi.Router) {
		r.Use(api.SessionAuth(deps.Sessions))

		r.Post("/auth/login", authHandlers.Login)
		r.Post("/auth/register", authHandlers.Register)
		r.Post("/auth/logout", authHandlers.Logout)
		r.Get("/auth/me", authHandlers.Me)
		r.Post("/auth/role", authHandlers.SelectRole)
		r.Get("/access", authHandlers.Access)
		r.Get("/navigation", authHandlers.Navigation)

		// Public catalog
		r.Get("/venues", catalogHandlers.ListVenues)
		r.Get("/venues/{id}", catalogHandlers.GetVenue)
		r.Get("/events", catalogHandlers.ListEvents)
		r.Get("/events/{id}", catalogHandlers.GetEvent)
		r.Get("/packages", bookingHandlers.Packages)

		// Any signed-in caller
		r.Group(func(r chi.Router) {
			r.Use(api.RequireCapability(identity.CapAnyAuthenticated))

			r.Post("/bookings", bookingHandlers.Create)
			r.Get("/bookings", bookingHandlers.List)
			r.Get("/bookings/{id}", bookingHandlers.Get)
			r.Get("/bookings/{id}/events", bookingHandlers.Events)
			r.Get("/me/summary", reportHandlers.MySummary)
			r.Post("/partner-applications", partnerHandlers.Submit)
		})

		// Partners
		r.Group(func(r chi.Router) {
			r.Use(api.RequireCapability(identity.CapPartnerApproved))

			r.Post("/venues", catalogHandlers.CreateVenue)
			r.Post("/events", catalogHandlers.CreateEvent)
			r.Get("/reports/revenue", reportHandlers.Revenue)
		})

		// Admin review
		r.Group(func(r chi.Router) {
			r.Use(api.RequireCapability(identity.CapReviewBookings))

			r.Post("/bookings/{id}/approve", bookingHandlers.Approve)
			r.Post("/bookings/{id}/reject", bookingHandlers.Reject)
			r.Get("/events/{id}/bookings", bookingHandlers.ForEvent)
			r.Get("/admin/summary", reportHandlers.AdminSummary)
			r.Get("/partner-applications", partnerHandlers.List)
		})
	})

	return r
}
