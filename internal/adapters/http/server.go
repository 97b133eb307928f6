package httpadapter

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/spigell/assessor/internal/hrdirectory"
	"github.com/spigell/assessor/internal/ports"
)

// Inspector exposes raw HR directory lookups for the debug endpoint.
type Inspector interface {
	Inspect(ctx context.Context, email string) (*hrdirectory.Inspection, error)
}

type Options struct {
	// RequestTimeout bounds every request. Zero disables the limit.
	RequestTimeout time.Duration
	// Inspector mounts POST /debug/hr-lookup when set.
	Inspector Inspector
	// Health is consulted by /healthz when set.
	Health func(ctx context.Context) error
}

type Server struct {
	provisioning ports.Provisioning
	delivery     ports.Delivery
	submission   ports.Reconciler
	logger       *zap.Logger
	opts         Options
}

func New(provisioning ports.Provisioning, delivery ports.Delivery, submission ports.Reconciler, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		provisioning: provisioning,
		delivery:     delivery,
		submission:   submission,
		logger:       logger,
		opts:         opts,
	}
}

// Routes returns a chi.Router with every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))
	}

	r.Get("/healthz", s.healthz)
	r.Post("/candidate-login", s.candidateLogin)
	r.Get("/details/{candidate_id}", s.candidateDetails)
	r.Get("/results/{candidate_id}", s.candidateResults)

	r.Route("/test", func(r chi.Router) {
		r.Post("/submit", s.submitTest)
		r.Get("/{set_id}", s.fetchTest)
	})

	if s.opts.Inspector != nil {
		r.Post("/debug/hr-lookup", s.debugLookup)
	}

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("took", time.Since(start)),
		}
		if id := middleware.GetReqID(r.Context()); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}

		if status >= http.StatusInternalServerError {
			s.logger.Warn("http request", fields...)
			return
		}
		s.logger.Debug("http request", fields...)
	})
}
