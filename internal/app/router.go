package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/DanielMD1989/freight-managment-sub009/internal/handler"
	"github.com/DanielMD1989/freight-managment-sub009/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	LoadHandler     *handler.LoadHandler
	TripHandler     *handler.TripHandler
	WalletHandler   *handler.WalletHandler
	RegistryHandler *handler.RegistryHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Registry routes.
		orgs := v1.Group("/organizations")
		{
			orgs.POST("", deps.RegistryHandler.RegisterOrg)
			orgs.GET("/:id", deps.RegistryHandler.GetOrg)
		}
		v1.POST("/trucks", deps.RegistryHandler.RegisterTruck)
		v1.POST("/corridors", deps.RegistryHandler.RegisterCorridor)

		// Load lifecycle routes.
		loads := v1.Group("/loads")
		{
			loads.POST("", deps.LoadHandler.CreateLoad)
			loads.GET("", deps.LoadHandler.GetAll)
			loads.GET("/:id", deps.LoadHandler.GetLoad)
			loads.POST("/:id/status", deps.LoadHandler.UpdateStatus)
			loads.POST("/:id/cancel", deps.LoadHandler.CancelLoad)
			loads.POST("/:id/pod", deps.LoadHandler.SubmitPOD)
			loads.POST("/:id/pod/verify", deps.LoadHandler.VerifyPOD)
			loads.POST("/:id/settle", deps.LoadHandler.Settle)
			loads.POST("/:id/fees/deduct", deps.LoadHandler.DeductFee)
			loads.POST("/:id/fees/refund", deps.LoadHandler.RefundFee)
			loads.GET("/:id/fee-preview", deps.LoadHandler.FeePreview)
			loads.GET("/:id/events", deps.LoadHandler.GetEvents)
			loads.GET("/:id/ledger", deps.LoadHandler.GetLedger)
			loads.GET("/:id/trip", deps.TripHandler.GetByLoad)
			loads.POST("/:id/requests", deps.LoadHandler.CreateRequest)
		}

		// Load request routes.
		v1.POST("/requests/:id/approve", deps.LoadHandler.ApproveRequest)

		// Trip routes.
		v1.GET("/trips/:id", deps.TripHandler.GetTrip)

		// Wallet routes.
		wallets := v1.Group("/wallets")
		{
			wallets.POST("/deposit", deps.WalletHandler.Deposit)
			wallets.POST("/withdrawals", deps.WalletHandler.RequestWithdrawal)
			wallets.GET("/:org", deps.WalletHandler.GetWallet)
			wallets.GET("/:org/withdrawals", deps.WalletHandler.ListWithdrawals)
			wallets.GET("/:org/audit", deps.WalletHandler.Audit)
		}
	}

	return router
}
