// Package httpapi exposes the REST surface: the session lifecycle endpoints,
// the authenticated account and record endpoints, and the operational
// endpoints (health, metrics).
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/healthlog/internal/logging"
	"github.com/dmitrijs2005/healthlog/internal/server/services"
)

// NewRouter assembles the chi router with all routes and middleware.
func NewRouter(auth *services.AuthService, rec *services.RecordsService, log logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Recovery(log))
	r.Use(RequestLogging(log))
	r.Use(Metrics)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	authHandler := NewAuthHandler(auth, log)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
	})

	recordsHandler := NewRecordsHandler(rec, log)
	r.Group(func(r chi.Router) {
		r.Use(Auth(auth.VerifyAccess))

		r.Get("/account/me", authHandler.Me)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", recordsHandler.ListProfiles)
			r.Post("/", recordsHandler.CreateProfile)

			r.Route("/{profileId}", func(r chi.Router) {
				r.Get("/", recordsHandler.GetProfile)
				r.Put("/", recordsHandler.UpdateProfile)
				r.Patch("/settings", recordsHandler.UpdateProfileSettings)
				r.Delete("/", recordsHandler.DeleteProfile)

				r.Route("/vitals", func(r chi.Router) {
					r.Get("/", recordsHandler.ListVitals)
					r.Post("/", recordsHandler.CreateVital)
					r.Get("/{vitalId}", recordsHandler.GetVital)
					r.Delete("/{vitalId}", recordsHandler.DeleteVital)
				})

				r.Route("/medications", func(r chi.Router) {
					r.Get("/", recordsHandler.ListMedications)
					r.Post("/", recordsHandler.CreateMedication)
					r.Get("/{medicationId}", recordsHandler.GetMedication)
					r.Put("/{medicationId}", recordsHandler.UpdateMedication)
					r.Delete("/{medicationId}", recordsHandler.DeleteMedication)
				})

				r.Route("/appointments", func(r chi.Router) {
					r.Get("/", recordsHandler.ListAppointments)
					r.Post("/", recordsHandler.CreateAppointment)
					r.Get("/{appointmentId}", recordsHandler.GetAppointment)
					r.Put("/{appointmentId}", recordsHandler.UpdateAppointment)
					r.Delete("/{appointmentId}", recordsHandler.DeleteAppointment)
				})

				r.Route("/reports", func(r chi.Router) {
					r.Get("/", recordsHandler.ListReports)
					r.Post("/", recordsHandler.CreateReport)
					r.Get("/{reportId}", recordsHandler.GetReport)
					r.Delete("/{reportId}", recordsHandler.DeleteReport)
				})
			})
		})
	})

	return r
}
