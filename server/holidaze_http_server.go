package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const SHUTDOWN_TIMEOUT = 5 * time.Second

type HolidazeHttpServer struct {
	router    *Router
	muxRouter *mux.Router
	addr      string
	log       logrus.FieldLogger
}

func NewHolidazeHttpServer(router *Router, muxRouter *mux.Router, addr string, logger logrus.FieldLogger) *HolidazeHttpServer {
	return &HolidazeHttpServer{
		router:    router,
		muxRouter: muxRouter,
		addr:      addr,
		log:       logger.WithField("component", "HolidazeHttpServer"),
	}
}

// Run serves until ctx is done, then gives in-flight requests SHUTDOWN_TIMEOUT to finish.
func (s *HolidazeHttpServer) Run(ctx context.Context) error {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.muxRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down the server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server exiting")
	return nil
}
