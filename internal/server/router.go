package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/NatiqIskandarli/papercut-backend/internal/handlers"
	"github.com/NatiqIskandarli/papercut-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleware
	CabinetHandler      *handlers.CabinetHandler
	RecordHandler       *handlers.RecordHandler
	NotificationHandler *handlers.NotificationHandler
	AllowOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Cabinets
	protected.POST("/cabinets", cfg.CabinetHandler.Create)
	protected.GET("/cabinets/:id", cfg.CabinetHandler.Get)
	protected.DELETE("/cabinets/:id", cfg.CabinetHandler.Delete)
	protected.POST("/cabinets/:id/members", cfg.CabinetHandler.AddMember)
	protected.GET("/cabinets/:id/members", cfg.CabinetHandler.ListMembers)
	protected.GET("/cabinets/:id/records", cfg.RecordHandler.ListByCabinet)

	// Records
	protected.POST("/records", cfg.RecordHandler.Create)
	protected.POST("/records/upload", cfg.RecordHandler.UploadFile)
	protected.POST("/records/process-pdf", cfg.RecordHandler.ProcessPdf)
	protected.GET("/records/:id", cfg.RecordHandler.Get)
	protected.PUT("/records/:id", cfg.RecordHandler.Update)
	protected.DELETE("/records/:id", cfg.RecordHandler.Delete)
	protected.POST("/records/:id/approve", cfg.RecordHandler.Approve)
	protected.POST("/records/:id/reject", cfg.RecordHandler.Reject)
	protected.POST("/records/:id/modify", cfg.RecordHandler.Modify)
	protected.GET("/records/:id/versions", cfg.RecordHandler.ListVersions)
	protected.POST("/records/:id/versions", cfg.RecordHandler.CreateVersion)
	protected.DELETE("/records/versions/:versionId", cfg.RecordHandler.DeleteVersion)
	protected.GET("/records/:id/other-versions", cfg.RecordHandler.ListOtherVersions)
	protected.GET("/records/:id/notes", cfg.RecordHandler.ListNotes)
	protected.GET("/records/:id/pdf", cfg.RecordHandler.GetPdfContent)

	// Notifications
	protected.GET("/notifications", cfg.NotificationHandler.List)
	protected.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)

	return router
}
