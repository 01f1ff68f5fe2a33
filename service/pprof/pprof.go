/*
	pprof package exposes the runtime profiling endpoints under /debug/pprof
	on a side port so running passes can be inspected.
*/

package pprof

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Service serves the profiling endpoints. It satisfies the service.Service
// interface.
type Service struct {
	addr   string
	logger *logrus.Entry
	router *chi.Mux
}

// New returns a Service listening on addr. A nil logger discards output.
func New(addr string, logger *logrus.Entry) (*Service, error) {
	if addr == "" {
		return nil, fmt.Errorf("pprof service: listen address not provided")
	}

	if logger == nil {
		logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	router := chi.NewRouter()
	router.Mount("/debug", middleware.Profiler())

	return &Service{addr: addr, logger: logger, router: router}, nil
}

// Name returns the name of the service.
func (svc *Service) Name() string { return "pprof" }

// Handler returns the HTTP handler serving the profiling endpoints.
func (svc *Service) Handler() http.Handler { return svc.router }

// Run serves the profiling endpoints until the context gets cancelled.
func (svc *Service) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", svc.addr)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	srv := &http.Server{Handler: svc.router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	svc.logger.WithField("addr", l.Addr().String()).Info("listening for pprof requests")

	if err = srv.Serve(l); errors.Is(err, http.ErrServerClosed) {
		err = nil
	}

	return err
}
