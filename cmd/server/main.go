package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"ride_hailing/internal/config"
	"ride_hailing/internal/controllers"
	"ride_hailing/internal/logger"
	"ride_hailing/internal/middleware"
	"ride_hailing/internal/roles"
	"ride_hailing/internal/routes"
	"ride_hailing/internal/services"
	"ride_hailing/internal/storage"
)

func main() {
	cfg := config.Load()

	// Initialize structured logging to file
	logger.Setup(cfg.LogFile, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("database init failed")
	}
	registry, err := roles.Load(ctx, db)
	if err != nil {
		log.WithError(err).Fatal("role seeding failed")
	}

	images, err := storage.NewImageStore(cfg.UploadDir, "/uploads", cfg.UploadMaxBytes)
	if err != nil {
		log.WithError(err).Fatal("upload storage init failed")
	}

	jwt := middleware.NewJWT(cfg.JWTSecret, cfg.JWTTTL)
	authService := services.NewAuthService(db, registry, jwt, cfg.BcryptCost)
	driverService := services.NewDriverService(db, registry)

	r := routes.SetupRouter(routes.Deps{
		Auth:      controllers.NewAuthController(authService, images),
		Drivers:   controllers.NewDriverController(driverService),
		JWT:       jwt,
		UploadDir: images.Dir(),
		AccessLog: ginlog.SetLogger(
			ginlog.WithWriter(logger.Writer()),
			ginlog.WithUTC(true),
			ginlog.WithSkipPath([]string{"/health"}),
		),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           middleware.EnableCORS(r, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("server running at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
