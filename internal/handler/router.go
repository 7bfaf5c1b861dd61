package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"wishlink/internal/handler/api"
	"wishlink/internal/handler/middleware"
	"wishlink/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, wishlistHandler *api.WishlistHandler, transactionHandler *api.TransactionHandler, sessionMiddleware *middleware.SessionMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, wishlistHandler, transactionHandler, sessionMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, wishlistHandler *api.WishlistHandler, transactionHandler *api.TransactionHandler, sessionMiddleware *middleware.SessionMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(sessionMiddleware.EnsureSession())
	{
		wishlists := apiGroup.Group("/wishlists")
		{
			addRoutes(wishlists, []route{
				{Method: http.MethodPost, Path: "", Handler: wishlistHandler.CreateWishlist},
				{Method: http.MethodGet, Path: "", Handler: wishlistHandler.ListWishlists},
				{Method: http.MethodGet, Path: "/:id", Handler: wishlistHandler.GetWishlist},
				{Method: http.MethodPut, Path: "/:id", Handler: wishlistHandler.UpdateWishlist},
				{Method: http.MethodDelete, Path: "/:id", Handler: wishlistHandler.DeleteWishlist},
				{Method: http.MethodGet, Path: "/:id/items/:itemId/transactions", Handler: wishlistHandler.GetItemTransactions},
			})
		}

		transactions := apiGroup.Group("/transactions")
		{
			addRoutes(transactions, []route{
				{Method: http.MethodPost, Path: "", Handler: transactionHandler.ClaimItem},
				{Method: http.MethodPost, Path: "/:id/purchase", Handler: transactionHandler.PurchaseClaim},
				{Method: http.MethodPost, Path: "/:id/release", Handler: transactionHandler.ReleaseClaim},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
