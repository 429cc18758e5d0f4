package router

import (
	"net/http"
	"time"

	"obras/api"
	"obras/config"
	_ "obras/docs"
	"obras/middleware"
	"obras/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// tentativas de login por IP
const (
	loginMaxAttempts = 10
	loginWindow      = time.Minute
)

// SetupRouter monta o engine com todas as rotas
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authHandler := api.NewAuthHandler(cfg)
	r.POST("/login", middleware.LoginRateLimit(loginMaxAttempts, loginWindow), authHandler.Login)

	// papel e ACL relidos do banco a cada requisição
	authorized := r.Group("")
	authorized.Use(middleware.JWTAuth(), middleware.LoadCurrentUser(), middleware.RolePermission())
	{
		authorized.GET("/me", authHandler.Me)

		projectHandler := api.NewProjectHandler()
		entryHandler := api.NewEntryHandler()
		subWorkHandler := api.NewSubWorkHandler()
		purchaseHandler := api.NewPurchaseHandler(alertNotifier(cfg))
		scheduleHandler := api.NewScheduleHandler()
		quoteHandler := api.NewQuoteHandler()
		invoiceHandler := api.NewInvoiceHandler()
		exportHandler := api.NewExportHandler()
		maintenanceHandler := api.NewMaintenanceHandler()
		userHandler := api.NewUserHandler()

		obras := authorized.Group("/obras")
		{
			obras.GET("", projectHandler.List)
			obras.POST("", projectHandler.Create)
			obras.GET("/:id", projectHandler.Get)
			obras.DELETE("/:id", projectHandler.Delete)

			obras.GET("/:id/lancamentos", entryHandler.List)
			obras.POST("/:id/lancamentos", entryHandler.Create)
			obras.GET("/:id/lancamentos/pendentes", entryHandler.Pending)
			obras.DELETE("/:id/lancamentos/excluir-todos-pendentes", maintenanceHandler.CleanupProject)

			// /servicos é o nome antigo de /empreitadas
			for _, name := range []string{"/:id/empreitadas", "/:id/servicos"} {
				obras.GET(name, subWorkHandler.List)
				obras.POST(name, subWorkHandler.Create)
			}

			obras.GET("/:id/compras", purchaseHandler.List)
			obras.POST("/:id/compras", purchaseHandler.Create)
			obras.GET("/:id/compras/alertas", purchaseHandler.Alerts)
			obras.POST("/:id/compras/alertas/enviar", purchaseHandler.SendAlerts)
			obras.PUT("/:id/compras/:cid", purchaseHandler.Update)
			obras.DELETE("/:id/compras/:cid", purchaseHandler.Delete)
			obras.POST("/:id/compras/:cid/marcar-realizada", purchaseHandler.MarkRealized)

			obras.GET("/:id/cronograma", scheduleHandler.List)
			obras.POST("/:id/cronograma", scheduleHandler.Create)
			obras.PUT("/:id/cronograma/:cid", scheduleHandler.Update)
			obras.DELETE("/:id/cronograma/:cid", scheduleHandler.Delete)

			obras.GET("/:id/orcamentos", quoteHandler.List)
			obras.POST("/:id/orcamentos", quoteHandler.Create)

			obras.GET("/:id/notas-fiscais", invoiceHandler.List)
			obras.POST("/:id/notas-fiscais", invoiceHandler.Upload)

			obras.GET("/:id/export/csv", exportHandler.ExportCSV)
			obras.GET("/:id/export/pdf_pendentes", exportHandler.ExportPendingPDF)
			obras.GET("/:id/export/xlsx", exportHandler.ExportXLSX)
		}

		lancamentos := authorized.Group("/lancamentos")
		{
			lancamentos.PUT("/:id", entryHandler.Update)
			lancamentos.DELETE("/:id", entryHandler.Delete)
			lancamentos.PATCH("/:id/pago", entryHandler.MarkPaid)
			lancamentos.POST("/:id/pagamentos", entryHandler.RegisterPayment)
			lancamentos.DELETE("/:id/saldo-pendente", entryHandler.DeletePendingBalance)
			lancamentos.DELETE("/excluir-todos-pendentes-global", maintenanceHandler.CleanupAll)
		}

		for _, prefix := range []string{"/empreitadas", "/servicos"} {
			g := authorized.Group(prefix)
			g.GET("/:id", subWorkHandler.Get)
			g.PUT("/:id", subWorkHandler.Update)
			g.DELETE("/:id", subWorkHandler.Delete)
			g.POST("/:id/pagamentos", subWorkHandler.AddPayment)
			g.PUT("/:id/pagamentos/:pid", subWorkHandler.UpdatePayment)
			g.DELETE("/:id/pagamentos/:pid", subWorkHandler.DeletePayment)
			g.POST("/:id/pagamentos/:pid/pagamentos", subWorkHandler.RegisterPayment)
			g.PATCH("/:id/pagamentos/:pid/pago", subWorkHandler.MarkPaymentPaid)
		}

		orcamentos := authorized.Group("/orcamentos")
		{
			orcamentos.PUT("/:id", quoteHandler.Update)
			orcamentos.DELETE("/:id", quoteHandler.Delete)
			orcamentos.POST("/:id/aprovar", quoteHandler.Approve)
			orcamentos.POST("/:id/rejeitar", quoteHandler.Reject)
		}

		notas := authorized.Group("/notas-fiscais")
		{
			notas.GET("/:id", invoiceHandler.Get)
			notas.GET("/:id/download", invoiceHandler.Download)
			notas.DELETE("/:id", invoiceHandler.Delete)
		}

		usuarios := authorized.Group("/usuarios")
		{
			usuarios.GET("", userHandler.List)
			usuarios.POST("", userHandler.Create)
			usuarios.PUT("/:id/obras", userHandler.SetProjects)
			usuarios.DELETE("/:id", userHandler.Delete)
		}

		authorized.DELETE("/limpar-tudo-pendente-global", maintenanceHandler.CleanupEverything)
		manutencao := authorized.Group("/manutencao")
		{
			manutencao.POST("/bootstrap", maintenanceHandler.Bootstrap)
			manutencao.POST("/tabelas/:tabela/recriar", maintenanceHandler.RecreateTable)
		}
	}

	return r
}

// alertNotifier nil desliga o envio de alertas por e-mail
func alertNotifier(cfg *config.Config) service.AlertNotifier {
	if !cfg.Email.Enabled {
		return nil
	}
	return service.NewEmailService(&cfg.Email, cfg.Alerts.Recipients)
}

// CORSMiddleware libera apenas as origens configuradas
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowed["*"] || allowed[origin]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
			c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")
			c.Writer.Header().Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
