package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/osvaldoandrade/w3bstitch/internal/app/anchor"
	"github.com/osvaldoandrade/w3bstitch/internal/app/credential"
	"github.com/osvaldoandrade/w3bstitch/internal/app/inspect"
	"github.com/osvaldoandrade/w3bstitch/internal/app/media"
	"github.com/osvaldoandrade/w3bstitch/internal/app/social"
	"github.com/osvaldoandrade/w3bstitch/internal/app/state"
	"github.com/osvaldoandrade/w3bstitch/internal/app/webpage"
	"github.com/osvaldoandrade/w3bstitch/internal/domain"
)

const (
	DefaultBodyLimit  int64 = 1 << 20
	DefaultMediaLimit int64 = 32 << 20
)

type Services struct {
	Anchor     *anchor.Service
	Receipts   *anchor.ReceiptService
	State      *state.PackageService
	Inspect    *inspect.Service
	Media      *media.HashService
	Credential *credential.IssueService
	Social     *social.Service
	Webpage    *webpage.Service
}

type Options struct {
	BodyLimit  int64
	MediaLimit int64
	Metrics    *Metrics
	Logger     *slog.Logger
}

type Handler struct {
	svc     Services
	opts    Options
	metrics *Metrics
	logger  *slog.Logger
}

func NewRouter(svc Services, opts Options) http.Handler {
	if opts.BodyLimit <= 0 {
		opts.BodyLimit = DefaultBodyLimit
	}
	if opts.MediaLimit <= 0 {
		opts.MediaLimit = DefaultMediaLimit
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	h := &Handler{
		svc:     svc,
		opts:    opts,
		metrics: opts.Metrics,
		logger:  opts.Logger.With("component", "http"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.instrument)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}).Handler)

	r.Get("/", h.home)
	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Post("/media/hash", h.mediaHash)
	r.Post("/credential/issue", h.issueCredential)

	r.Route("/state", func(api chi.Router) {
		api.Post("/package", h.packageState)
		api.Post("/verify", h.verifyState)
	})

	r.Route("/anchor", func(api chi.Router) {
		api.Post("/l2", h.anchor(domain.NetworkL2))
		api.Post("/l1", h.anchor(domain.NetworkL1))
		api.Post("/inspect", h.inspect)
		api.Get("/receipts", h.receipts)
	})

	r.Route("/twitter", func(api chi.Router) {
		api.Get("/lookup", h.twitterLookup)
		api.Get("/user_tweets", h.twitterUserTweets)
		api.Get("/search", h.twitterSearch)
	})

	r.Get("/web/metadata", h.webMetadata)
	return r
}

// Serve runs the HTTP server until ctx is canceled, then drains in-flight
// requests for up to shutdownTimeout.
func Serve(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("http server stopped")
	return nil
}
