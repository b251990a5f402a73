package router

import (
	"github.com/dkzinn98/gestor-financeiro/internal/config"
	"github.com/dkzinn98/gestor-financeiro/internal/handler"
	"github.com/dkzinn98/gestor-financeiro/internal/ledger"
	"github.com/dkzinn98/gestor-financeiro/internal/logger"
	"github.com/dkzinn98/gestor-financeiro/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	registry := ledger.NewCategories(db, logger.Get())
	store := ledger.NewStore(db, logger.Get())

	api := r.Group("/api")

	// legacy health route kept for old clients
	api.GET("/teste", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "API OK"})
	})

	authHandler := handler.NewAuthHandler(db, registry,
		cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, db),
		middleware.AuditMiddleware(db),
	)

	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", handler.GetMe)
	protected.GET("/user", handler.GetMe) // alias kept from the old API

	categoryHandler := handler.NewCategoryHandler(registry)
	protected.GET("/categorias", categoryHandler.List)
	protected.POST("/categorias", categoryHandler.Create)
	protected.GET("/categorias/:id", categoryHandler.Get)
	protected.PUT("/categorias/:id", categoryHandler.Update)
	protected.DELETE("/categorias/:id", categoryHandler.Delete)

	transactionHandler := handler.NewTransactionHandler(store, cfg.App.RecentLimit)
	protected.GET("/transacoes", transactionHandler.List)
	protected.POST("/transacoes", transactionHandler.Create)
	protected.GET("/transacoes/dashboard", transactionHandler.Dashboard)
	protected.GET("/transacoes/recent", transactionHandler.Recent)
	protected.GET("/transacoes/:id", transactionHandler.Get)
	protected.PUT("/transacoes/:id", transactionHandler.Update)
	protected.DELETE("/transacoes/:id", transactionHandler.Delete)

	exportHandler := handler.NewExportHandler(store, registry)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	auditHandler := handler.NewAuditHandler(db, cfg.App.PageSize)
	protected.GET("/logs", auditHandler.List)

	return r
}
