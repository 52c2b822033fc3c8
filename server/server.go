package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/techagentng/mopcdash/config"
	"github.com/techagentng/mopcdash/db"
	"github.com/techagentng/mopcdash/services"
	"go.uber.org/zap"
)

// Server holds the HTTP dependencies of the dashboard API.
type Server struct {
	Config               *config.Config
	Log                  *zap.Logger
	UserRepository       db.UserRepository
	AuthService          services.AuthService
	ReportService        services.ReportService
	DashboardService     services.DashboardService
	PendingReportService services.PendingReportService
	MediaService         services.MediaService
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Start() {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Config.Port),
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.Log.Info("server started", zap.Int("port", s.Config.Port), zap.String("env", s.Config.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Log.Error("server forced to shutdown", zap.Error(err))
	}
	s.Log.Info("server exiting")
}
