package main

import (
	"context"
	"log"

	"github.com/techagentng/mopcdash/config"
	"github.com/techagentng/mopcdash/db"
	"github.com/techagentng/mopcdash/logger"
	"github.com/techagentng/mopcdash/server"
	"github.com/techagentng/mopcdash/services"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zapLog, err := logger.New(conf.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zapLog.Sync() }()

	gormDB := db.GetDB(conf, zapLog)
	if err := db.SeedUsers(gormDB.DB, conf.AdminUsername, conf.AdminPassword); err != nil {
		zapLog.Fatal("error seeding admin user", zap.Error(err))
	}

	s3Client, err := db.NewS3Client(context.Background(), conf)
	if err != nil {
		zapLog.Fatal("error creating s3 client", zap.Error(err))
	}

	userRepo := db.NewUserRepo(gormDB)
	reportRepo := db.NewReportRepo(gormDB)
	pendingRepo := db.NewPendingReportRepo(gormDB)
	mediaRepo := db.NewMediaRepo(s3Client, conf)

	reportService := services.NewReportService(reportRepo, conf)
	authService := services.NewAuthService(userRepo, reportRepo, pendingRepo, conf, zapLog)
	dashboardService := services.NewDashboardService(reportService)
	pendingReportService := services.NewPendingReportService(pendingRepo, reportService, zapLog)
	mediaService := services.NewMediaService(mediaRepo, reportService, zapLog)

	s := &server.Server{
		Config:               conf,
		Log:                  zapLog,
		UserRepository:       userRepo,
		AuthService:          authService,
		ReportService:        reportService,
		DashboardService:     dashboardService,
		PendingReportService: pendingReportService,
		MediaService:         mediaService,
	}
	s.Start()
}
