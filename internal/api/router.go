package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hackgods/doctor-booking/internal/auth"
	"github.com/hackgods/doctor-booking/internal/booking"
	"github.com/hackgods/doctor-booking/internal/doctor"
	"github.com/hackgods/doctor-booking/internal/schedule"
)

type RouterConfig struct {
	Doctors   *doctor.Service
	Schedules *schedule.Service
	Resolver  *schedule.Resolver
	Allocator *booking.Allocator
	Lifecycle *booking.Lifecycle
	Queries   *booking.Queries
	Tokens    *auth.Tokens

	Dependencies  []Dependency
	Logger        zerolog.Logger
	ReservePerMin int
	Env           string
	Version       string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.Dependencies, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Tokens))

		r.Route("/doctors", func(r chi.Router) {
			r.Get("/", listDoctorsHandler(cfg.Doctors))
			r.Post("/", createDoctorHandler(cfg.Doctors))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", getDoctorHandler(cfg.Doctors))
				r.Patch("/active", setDoctorActiveHandler(cfg.Doctors))
				r.Get("/slots", slotsHandler(cfg.Doctors, cfg.Resolver, cfg.Allocator))

				r.Get("/schedule", getScheduleHandler(cfg.Schedules))
				r.Put("/schedule", putScheduleHandler(cfg.Schedules))

				r.Get("/exceptions", listExceptionsHandler(cfg.Schedules, cfg.Resolver))
				r.Put("/exceptions/{date}", putExceptionHandler(cfg.Schedules))
				r.Delete("/exceptions/{date}", deleteExceptionHandler(cfg.Schedules))
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.With(RateLimitMiddleware(cfg.ReservePerMin)).Post("/", createBookingHandler(cfg.Allocator))
			r.Get("/", listBookingsHandler(cfg.Queries))
			r.Get("/{id}", getBookingHandler(cfg.Queries))
			r.Post("/{id}/transition", transitionBookingHandler(cfg.Lifecycle))
			r.Delete("/{id}", deleteBookingHandler(cfg.Lifecycle))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/overview", overviewHandler(cfg.Queries, cfg.Doctors))
			r.Get("/bookings/export", exportBookingsHandler(cfg.Queries))
		})
	})

	return r
}
