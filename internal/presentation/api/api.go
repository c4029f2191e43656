package api

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aarynsmith/exercisetracker/docs"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/configs"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/json"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/logging"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/metrics"
	"github.com/aarynsmith/exercisetracker/internal/infrastructure/ratelimiter"
	exerciseHandler "github.com/aarynsmith/exercisetracker/internal/presentation/handler/exercise"
	healthHandler "github.com/aarynsmith/exercisetracker/internal/presentation/handler/health"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const shutdownTimeout = 5 * time.Second

type Application struct {
	config          configs.Config
	exerciseHandler *exerciseHandler.Handler
	healthHandler   *healthHandler.Handler
	logger          logging.Logger
	ratelimiter     ratelimiter.Limiter
	metrics         *metrics.Metrics
}

// NewApplication wires the handlers into an HTTP application. limiter may be
// nil to disable rate limiting.
func NewApplication(
	config configs.Config,
	exerciseHandler *exerciseHandler.Handler,
	healthHandler *healthHandler.Handler,
	logger logging.Logger,
	limiter ratelimiter.Limiter,
	metrics *metrics.Metrics,
) *Application {
	return &Application{
		config:          config,
		exerciseHandler: exerciseHandler,
		healthHandler:   healthHandler,
		logger:          logger,
		ratelimiter:     limiter,
		metrics:         metrics,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.loggerMiddleware)
	r.Use(middleware.Recoverer)
	if app.config.HTTP.RequestTimeout > 0 {
		r.Use(middleware.Timeout(app.config.HTTP.RequestTimeout))
	}
	r.Use(app.prometheusMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.HTTP.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: app.config.HTTP.AllowedHeaders,
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:         300,
	}))

	// after CORS so throttled responses stay readable and preflights are free
	if app.ratelimiter != nil {
		r.Use(app.rateLimiterMiddleware)
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Route("/api", func(r chi.Router) {
		r.Route("/exercise", func(r chi.Router) {
			r.Get("/users", app.exerciseHandler.ListUsersHandler)
			r.Post("/new-user", app.exerciseHandler.NewUserHandler)
			r.Post("/add", app.exerciseHandler.AddExerciseHandler)
			r.Get("/log", app.exerciseHandler.GetLogHandler)
		})

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return otelhttp.NewHandler(r, "exercisetracker",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	json.WriteNotFound(w)
}

// Run serves mux until ctx is cancelled or SIGINT/SIGTERM arrives, then
// drains in-flight requests.
func (app *Application) Run(ctx context.Context, mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.HTTP.Addr(),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown := make(chan error, 1)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "shutdown requested", map[logging.ExtraKey]any{
			logging.Address: srv.Addr,
		})

		shutdown <- srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		logging.Address: srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdown; err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		logging.Address: srv.Addr,
	})

	return nil
}
