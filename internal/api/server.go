package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/crashviz/pkg/interact"
	"github.com/matzehuels/crashviz/pkg/pipeline"
	"github.com/matzehuels/crashviz/pkg/records"
)

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Width   float64
	Height  float64
	Padding float64
	Style   string
	Tooltip interact.Metrics

	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
	Logger   *log.Logger
}

// Server holds the records, the selection and the chart derived from them.
type Server struct {
	opts   Options
	runner *pipeline.Runner
	router chi.Router

	mu    sync.Mutex
	recs  []records.Record
	ctrl  *interact.Controller
	state *state
}

// New returns a server over recs. The runner caches rendered artifacts.
func New(recs []records.Record, runner *pipeline.Runner, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Tooltip == (interact.Metrics{}) {
		opts.Tooltip = interact.DefaultMetrics
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}

	s := &Server{
		opts:   opts,
		runner: runner,
		recs:   recs,
		ctrl:   interact.NewController(),
	}
	s.ctrl.Subscribe(func(ev interact.Event) {
		cause := "<none>"
		if ev.Cause != nil {
			cause = *ev.Cause
		}
		s.opts.Logger.Info("selection changed", "cause", cause)
	})
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestID)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/chart", s.handleChart)
		api.Get("/categories", s.handleCategories)
		api.Post("/selection", s.handleSelect)
		api.Delete("/selection", s.handleReset)
		api.Post("/click", s.handleClick)
		api.Get("/hover/treemap", s.handleHoverTreemap)
		api.Get("/hover/series", s.handleHoverSeries)
		api.Get("/render/{kind}.svg", s.handleRender)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", "addr", s.opts.Addr, "records", len(s.recs))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.opts.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
