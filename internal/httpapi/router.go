package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/username/candidate-scheduler/internal/calendar"
	"github.com/username/candidate-scheduler/internal/schedule"
)

// HolidayLister returns the holiday set for a year without failing
type HolidayLister interface {
	HolidaysForYear(ctx context.Context, year int) calendar.HolidaySet
}

// Options configures the router
type Options struct {
	MaxRequests int // per IP per minute, 0 disables limiting
	Clock       schedule.Clock
}

// Handler serves the scheduling API
type Handler struct {
	service  *schedule.Service
	holidays HolidayLister
	clock    schedule.Clock
	logger   *zap.Logger
}

// NewRouter builds the HTTP API
func NewRouter(service *schedule.Service, holidays HolidayLister, opts Options, logger *zap.Logger) http.Handler {
	clock := opts.Clock
	if clock == nil {
		clock = schedule.SystemClock{}
	}
	h := &Handler{
		service:  service,
		holidays: holidays,
		clock:    clock,
		logger:   logger,
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if opts.MaxRequests > 0 {
		router.Use(httprate.LimitByIP(opts.MaxRequests, time.Minute))
	}

	router.Get("/healthz", h.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/schedules", h.createSchedule)
		r.Post("/schedules/ics", h.exportSchedule)
		r.Get("/holidays/{year}", h.listHolidays)
		r.Get("/durations", h.listDurations)
	})

	return router
}

func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)))
		})
	}
}
