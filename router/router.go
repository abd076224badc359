package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-table-service/controllers"
	"github.com/yeremiapane/restaurant-table-service/middlewares"
	"github.com/yeremiapane/restaurant-table-service/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Global per-IP limit on top of the strict login limiter; must be
	// registered before the routes are.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	ledger := services.NewUsageLedger(db)
	tableSvc := services.NewTableService(db, ledger)
	areaSvc := services.NewAreaService(db)
	qrSvc := services.NewQRService(db)

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(tableSvc, ledger)
	sessionCtrl := controllers.NewSessionController(ledger)
	areaCtrl := controllers.NewAreaController(areaSvc)
	qrCtrl := controllers.NewQRController(qrSvc)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Customer-facing: resolve a scanned QR token to its table.
	r.GET("/qr/:token", qrCtrl.ResolveQR)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)

	// TABLES
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/tables/stats", tableCtrl.GetTableStats)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	auth.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	auth.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)
	auth.GET("/tables/:table_id/history", tableCtrl.GetTableHistory)

	// SESSIONS (usage ledger)
	auth.GET("/tables/:table_id/session", sessionCtrl.GetActiveSession)
	auth.POST("/tables/:table_id/session/milestones", sessionCtrl.RecordMilestone)
	auth.PATCH("/sessions/:usage_id", sessionCtrl.UpdateSession)

	// AREAS
	auth.GET("/areas", areaCtrl.GetAllAreas)
	auth.POST("/areas", areaCtrl.CreateArea)
	auth.DELETE("/areas/:value", areaCtrl.DeleteArea)

	// QR
	auth.POST("/tables/:table_id/qr", qrCtrl.GetOrCreateQR)
	auth.POST("/tables/:table_id/qr/regenerate", qrCtrl.RegenerateQR)
	auth.DELETE("/tables/:table_id/qr", qrCtrl.RevokeQR)

	// Events hub for staff dashboards (token via query string).
	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("", controllers.EventsHandler)
	}

	return r
}
