package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/bioskopid/counter-gateway/internal/domain"
	"github.com/bioskopid/counter-gateway/internal/overlay"
	"github.com/bioskopid/counter-gateway/internal/repository"
	"github.com/bioskopid/counter-gateway/internal/upstream"
	appvalidator "github.com/bioskopid/counter-gateway/internal/validator"
	"github.com/bioskopid/counter-gateway/internal/vcs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var (
	version = vcs.Version()
)

type application struct {
	config         config
	logger         *slog.Logger
	redis          redis.UniversalClient
	validator      *validator.Validate
	sessionManager *scs.SessionManager

	catalog  domain.CatalogService
	seats    domain.SeatService
	bookings domain.BookingService

	flowStore    domain.FlowStore
	invoiceStore domain.InvoiceStore
	bookingCache domain.BookingCache
	reconciler   *overlay.Reconciler
}

type config struct {
	port     int
	env      string
	upstream struct {
		baseURL     string
		token       string
		timeout     time.Duration
		tierTimeout time.Duration
	}
	redis struct {
		url          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
}

func Run() error {
	// A .env file is optional; flags still win.
	_ = godotenv.Load()

	var cfg config

	flag.IntVar(&cfg.port, "port", 3000, "server port")
	flag.StringVar(&cfg.env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.upstream.baseURL, "upstream-url", envOr("UPSTREAM_URL", "http://localhost:4000/api/v1"), "Ticketing backend base URL")
	flag.StringVar(&cfg.upstream.token, "upstream-token", os.Getenv("UPSTREAM_TOKEN"), "Counter account bearer token")
	flag.DurationVar(&cfg.upstream.timeout, "upstream-timeout", 10*time.Second, "Per-request timeout for backend calls")
	flag.DurationVar(&cfg.upstream.tierTimeout, "overlay-tier-timeout", 3*time.Second, "Per-tier timeout for booked-seat overlay lookups")

	flag.StringVar(&cfg.redis.url, "redis-url", envOr("REDIS_URL", "localhost:6379"), "Redis URL")
	flag.IntVar(&cfg.redis.maxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.redis.maxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.redis.maxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	validator := appvalidator.NewValidator()

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	client := upstream.NewClient(cfg.upstream.baseURL, cfg.upstream.token, cfg.upstream.timeout, logger)

	bookingCache := repository.NewRedisBookingCache(redisClient)

	reconciler := overlay.NewReconciler(logger, cfg.upstream.tierTimeout,
		&overlay.ShowingEndpoint{Bookings: client},
		&overlay.PaymentScan{Bookings: client},
		&overlay.RecentBookings{Cache: bookingCache},
	)

	app := &application{
		config:         cfg,
		logger:         logger,
		redis:          redisClient,
		validator:      validator,
		sessionManager: newSessionManager(redisClient),
		catalog:        client,
		seats:          client,
		bookings:       client,
		flowStore:      repository.NewRedisFlowStore(redisClient),
		invoiceStore:   repository.NewRedisInvoiceStore(redisClient),
		bookingCache:   bookingCache,
		reconciler:     reconciler,
	}

	return app.run()
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func newSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 30 * time.Minute
	sessionManager.Cookie.Name = "counter_session"

	return sessionManager
}

func newRedisClient(cfg config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.redis.url,
		MaxIdleConns:    cfg.redis.maxIdleConns,
		MaxActiveConns:  cfg.redis.maxOpenConns,
		ConnMaxIdleTime: cfg.redis.maxIdleTime,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func (app *application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(app.ensureCounterSession)
	r.Use(app.captureUpstreamToken)

	r.Get("/health", app.GetHealth)

	r.Get("/movies/{movieID}", app.GetMovie)
	r.Get("/movies/{movieID}/showings", app.GetShowings)
	r.Get("/studios", app.GetStudios)

	r.Route("/flow", func(r chi.Router) {
		r.Post("/showing", app.SelectShowingHandler)
		r.Get("/seatmap", app.GetSeatMapHandler)
		r.Post("/seatmap/generate", app.GenerateSeatsHandler)
		r.Post("/seats/toggle", app.ToggleSeatHandler)
		r.Get("/breakdown", app.GetBreakdownHandler)
		r.Post("/checkout", app.CheckoutHandler)
		r.Delete("/", app.CancelFlowHandler)
	})

	r.Get("/invoices/{bookingID}", app.GetInvoiceHandler)
	r.Get("/invoices/{bookingID}/ticket.pdf", app.GetInvoicePDFHandler)

	return r
}
