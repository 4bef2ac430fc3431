package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "servicedesk/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"servicedesk/internal/auth"
	"servicedesk/internal/cache"
	"servicedesk/internal/config"
	"servicedesk/internal/db"
	"servicedesk/internal/handler"
	"servicedesk/internal/logger"
	"servicedesk/internal/model"
	"servicedesk/internal/outbox"
	"servicedesk/internal/realtime"
	"servicedesk/internal/repository"
	"servicedesk/internal/router"
	"servicedesk/internal/service"
)

// @title Service Desk API
// @version 1.0
// @description Role-based service management API with contacts, service requests, assets, inventory, and notifications.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Options{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: "servicedesk",
	}); err != nil {
		panic(err)
	}
	log := logger.L()
	defer log.Sync() //nolint:errcheck

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Warn("RESET_DB=true detected, dropping all tables")
		tables := []interface{}{
			&model.OutboxMessage{},
			&model.ActivityLog{},
			&model.Notification{},
			&model.InventoryItem{},
			&model.Asset{},
			&model.Contact{},
			&model.ServiceRequest{},
			&model.RoleAssignment{},
			&model.Profile{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Warn("drop table failed (may not exist)", zap.Error(err))
			}
		}
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Profile{},
		&model.RoleAssignment{},
		&model.Contact{},
		&model.ServiceRequest{},
		&model.Asset{},
		&model.InventoryItem{},
		&model.Notification{},
		&model.ActivityLog{},
		&model.OutboxMessage{},
	); err != nil {
		log.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	feed := realtime.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer feed.Close() //nolint:errcheck

	publisher := outbox.NewAMQPPublisher(cfg.AMQPURL)
	defer publisher.Close() //nolint:errcheck

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)
	contactRepo := repository.NewContactRepository(gormDB)
	requestRepo := repository.NewServiceRequestRepository(gormDB)
	assetRepo := repository.NewAssetRepository(gormDB)
	inventoryRepo := repository.NewInventoryRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)
	activityRepo := repository.NewActivityLogRepository(gormDB)
	outboxRepo := repository.NewOutboxRepository(gormDB)
	uow := repository.NewUnitOfWork(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	roleService := service.NewRoleService(roleRepo, uow, cacheClient)
	authService := service.NewAuthService(profileRepo, roleService, uow, jwtService, tokenStore)
	profileService := service.NewProfileService(profileRepo, cacheClient)
	contactService := service.NewContactService(contactRepo)
	requestService := service.NewRequestService(requestRepo, roleService, uow)
	assetService := service.NewAssetService(assetRepo)
	inventoryService := service.NewInventoryService(inventoryRepo, uow)
	notificationService := service.NewNotificationService(notificationRepo, roleRepo, profileRepo, uow)
	activityService := service.NewActivityService(activityRepo)
	reportService := service.NewReportService(requestRepo, inventoryRepo)

	// Start the outbox dispatcher
	dispatcherCtx, cancelDispatcher := context.WithCancel(context.Background())
	dispatcher := outbox.NewDispatcher(outboxRepo, notificationRepo, feed, publisher)
	dispatcher.Start(dispatcherCtx)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Profile:      handler.NewProfileHandler(profileService),
		Staff:        handler.NewStaffHandler(profileService, roleService),
		Contact:      handler.NewContactHandler(contactService),
		Request:      handler.NewRequestHandler(requestService),
		Asset:        handler.NewAssetHandler(assetService),
		Inventory:    handler.NewInventoryHandler(inventoryService),
		Notification: handler.NewNotificationHandler(notificationService, feed),
		Activity:     handler.NewActivityHandler(activityService),
		Report:       handler.NewReportHandler(reportService),
	})

	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", zap.Error(err))
		}
	}()
	log.Info("server started",
		zap.String("port", cfg.ServerPort),
		zap.String("swagger", "http://localhost:"+cfg.ServerPort+"/swagger/index.html"))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}

	// Stop the dispatcher after the HTTP surface is closed so every
	// committed outbox row gets a final drain pass. Stop before cancelling
	// its context; the final pass runs on its own deadline either way.
	dispatcher.Stop()
	cancelDispatcher()
}
