/*
	frontend package hosts the query server. It exposes:
		POST /search  {"query": "..."} -> [{"title", "URL", "description"}]
		GET  /healthz
	Results are ranked against the tables loaded at start-up and enriched
	with a title and description fetched live from every result page.
*/

package frontend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mycok/wander/frontend"
	"github.com/mycok/wander/ranker"
)

const (
	searchEndpoint = "/search"
	healthEndpoint = "/healthz"

	maxRequestBodySize = 1 << 16
	shutdownTimeout    = 5 * time.Second
)

// Service is the query server. It satisfies the service.Service interface.
type Service struct {
	cfg      Config
	ranker   *ranker.Ranker
	enricher *frontend.Enricher
	router   *chi.Mux
}

// New loads the ranked tables and returns a fully configured front-end
// service instance.
func New(ctx context.Context, cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("frontend service: config validation failed: %w", err)
	}

	weights, ranks, err := cfg.RankedStore.LoadRanked(ctx)
	if err != nil {
		return nil, fmt.Errorf("frontend service: loading ranked datasets: %w", err)
	}

	svc := &Service{
		cfg:      cfg,
		ranker:   ranker.New(weights, ranks, cfg.Lemmatizer),
		enricher: frontend.NewEnricher(cfg.Fetcher, cfg.EnrichWorkers, cfg.MaxDescriptionLength),
		router:   chi.NewRouter(),
	}

	svc.router.Use(svc.requestLogger, middleware.Recoverer)
	svc.router.Post(searchEndpoint, svc.search)
	svc.router.Get(healthEndpoint, svc.health)
	svc.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	svc.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return svc, nil
}

// Name returns the name of the service.
func (svc *Service) Name() string { return "frontend" }

// Handler returns the HTTP handler serving the query API.
func (svc *Service) Handler() http.Handler { return svc.router }

// Run executes the service and blocks until the context gets cancelled
// or an error occurs.
func (svc *Service) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", svc.cfg.ListenAddr)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	srv := &http.Server{
		Addr:              svc.cfg.ListenAddr,
		Handler:           svc.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	svc.cfg.Logger.WithFields(logrus.Fields{
		"addr":      l.Addr().String(),
		"documents": svc.ranker.Documents(),
	}).Info("started service")
	defer svc.cfg.Logger.Info("stopped service")

	if err = srv.Serve(l); errors.Is(err, http.ErrServerClosed) {
		err = nil
	}

	return err
}

type searchRequest struct {
	Query string `json:"query"`
}

func (svc *Service) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	results := svc.ranker.Rank(req.Query)
	if len(results) > svc.cfg.MaxResults {
		results = results[:svc.cfg.MaxResults]
	}

	urls := make([]string, len(results))
	for i, res := range results {
		urls[i] = res.URL
	}

	snippets, err := svc.enricher.Enrich(r.Context(), urls, req.Query)
	if err != nil {
		svc.cfg.Logger.WithField("err", err).Warn("enriching search results failed")
		writeError(w, http.StatusServiceUnavailable, "search aborted")

		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

func (svc *Service) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"documents": svc.ranker.Documents(),
	})
}

// requestLogger tags every request with an id and logs its outcome.
func (svc *Service) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-Id", requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		startedAt := time.Now()
		next.ServeHTTP(ww, r)

		svc.cfg.Logger.WithFields(logrus.Fields{
			"request_id":   requestID,
			"method":       r.Method,
			"path":         r.URL.Path,
			"status":       ww.Status(),
			"elapsed_time": time.Since(startedAt).String(),
		}).Debug("served request")
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
