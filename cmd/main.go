package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/NatiqIskandarli/papercut-backend/internal/data/db"
	"github.com/NatiqIskandarli/papercut-backend/internal/handlers"
	"github.com/NatiqIskandarli/papercut-backend/internal/middleware"
	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/envutil"
	"github.com/NatiqIskandarli/papercut-backend/internal/pkg/logger"
	"github.com/NatiqIskandarli/papercut-backend/internal/platform/r2"
	"github.com/NatiqIskandarli/papercut-backend/internal/platform/redisbus"
	"github.com/NatiqIskandarli/papercut-backend/internal/repos"
	"github.com/NatiqIskandarli/papercut-backend/internal/server"
	"github.com/NatiqIskandarli/papercut-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables...")
	jwtSecretKey := envutil.Str("JWT_SECRET_KEY", "defaultsecret")
	accessTokenTTL := envutil.Int("ACCESS_TOKEN_TTL", 3600)
	listenAddr := envutil.Str("LISTEN_ADDR", ":8080")
	pdfScratchDir := envutil.Str("PDF_SCRATCH_DIR", os.TempDir())
	allowOrigins := strings.Split(envutil.Str("CORS_ALLOW_ORIGINS", "http://localhost:3000"), ",")

	if err := os.MkdirAll(pdfScratchDir, 0o755); err != nil {
		log.Error("Could not create pdf scratch dir", "dir", pdfScratchDir, "error", err)
		os.Exit(1)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	cabinetRepo := repos.NewCabinetRepo(thePG, log)
	memberRepo := repos.NewCabinetMemberRepo(thePG, log)
	recordRepo := repos.NewRecordRepo(thePG, log)
	versionRepo := repos.NewRecordVersionRepo(thePG, log)
	otherVersionRepo := repos.NewRecordOtherVersionRepo(thePG, log)
	noteRepo := repos.NewRecordNoteCommentRepo(thePG, log)
	pdfFileRepo := repos.NewPdfFileRepo(thePG, log)
	activityLogRepo := repos.NewActivityLogRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)

	// Platform clients
	bucketService, err := r2.New(log)
	if err != nil {
		log.Warn("Could not init bucket client, file uploads disabled", "error", err)
	}
	bus, err := redisbus.New(log)
	if err != nil {
		log.Warn("Could not init redis bus, notification fan-out disabled", "error", err)
		bus = nil
	}

	// Services
	log.Info("Setting up services...")
	authService := services.NewAuthService(thePG, log, userRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	activityService := services.NewActivityService(thePG, log, activityLogRepo)
	notificationService := services.NewNotificationService(thePG, log, notificationRepo, bus)
	pdfExtractService := services.NewPdfExtractService(log, pdfScratchDir)
	fileService := services.NewFileService(log, bucketService)
	recordService := services.NewRecordService(
		thePG,
		log,
		recordRepo,
		versionRepo,
		otherVersionRepo,
		noteRepo,
		pdfFileRepo,
		cabinetRepo,
		memberRepo,
		userRepo,
		pdfExtractService,
		activityService,
		notificationService,
	)
	versionService := services.NewRecordVersionService(thePG, log, recordRepo, versionRepo, otherVersionRepo, cabinetRepo, userRepo)

	// Handlers
	log.Info("Setting up handlers...")
	authHandler := handlers.NewAuthHandler(authService)
	cabinetHandler := handlers.NewCabinetHandler(cabinetRepo, memberRepo)
	recordHandler := handlers.NewRecordHandler(recordService, versionService, fileService, pdfExtractService, recordRepo, noteRepo, pdfFileRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:         authHandler,
		AuthMiddleware:      authMiddleware,
		CabinetHandler:      cabinetHandler,
		RecordHandler:       recordHandler,
		NotificationHandler: notificationHandler,
		AllowOrigins:        allowOrigins,
	})

	log.Info("Starting server", "addr", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
