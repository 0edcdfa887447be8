package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/smartsuschef/backend-go/internal/api/handlers"
	"github.com/smartsuschef/backend-go/internal/api/middleware"
	"github.com/smartsuschef/backend-go/internal/service"
)

type Services struct {
	Forecast   *service.ForecastService
	Export     *service.ExportService
	Recipe     *service.RecipeService
	Ingredient *service.IngredientService
	Sales      *service.SalesService
	Wastage    *service.WastageService
	Store      *service.StoreService
	Dashboard  *service.DashboardService
	Signals    *service.SignalService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Store-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	storeHandler := handlers.NewStoreHandler(services.Store)
	apiGroup.POST("/store/register", storeHandler.Register)

	tenantGroup := apiGroup.Group("", middleware.Tenant())
	{
		tenantGroup.GET("/store", storeHandler.Get)
		tenantGroup.PUT("/store/setup", storeHandler.Setup)

		forecastHandler := handlers.NewForecastHandler(services.Forecast, services.Export)
		forecastGroup := tenantGroup.Group("/forecast")
		{
			forecastGroup.GET("", forecastHandler.GetForecast)
			forecastGroup.GET("/summary", forecastHandler.GetSummary)
			forecastGroup.GET("/export", forecastHandler.ExportCSV)
		}

		mlHandler := handlers.NewMLHandler(services.Forecast)
		mlGroup := tenantGroup.Group("/ml")
		{
			mlGroup.GET("/status", mlHandler.GetStatus)
			mlGroup.POST("/train", mlHandler.TriggerTraining)
		}

		recipeHandler := handlers.NewRecipeHandler(services.Recipe)
		recipeGroup := tenantGroup.Group("/recipes")
		{
			recipeGroup.GET("", recipeHandler.List)
			recipeGroup.POST("", recipeHandler.Create)
			recipeGroup.GET("/:id", recipeHandler.Get)
			recipeGroup.PUT("/:id", recipeHandler.Update)
			recipeGroup.DELETE("/:id", recipeHandler.Delete)
			recipeGroup.GET("/:id/ingredients", recipeHandler.Expand)
			recipeGroup.GET("/:id/carbon", recipeHandler.CarbonFootprint)
		}

		ingredientHandler := handlers.NewIngredientHandler(services.Ingredient)
		ingredientGroup := tenantGroup.Group("/ingredients")
		{
			ingredientGroup.GET("", ingredientHandler.List)
			ingredientGroup.POST("", ingredientHandler.Create)
			ingredientGroup.GET("/:id", ingredientHandler.Get)
			ingredientGroup.PUT("/:id", ingredientHandler.Update)
			ingredientGroup.DELETE("/:id", ingredientHandler.Delete)
		}

		salesHandler := handlers.NewSalesHandler(services.Sales)
		salesGroup := tenantGroup.Group("/sales")
		{
			salesGroup.GET("", salesHandler.List)
			salesGroup.POST("", salesHandler.Create)
			salesGroup.POST("/import", salesHandler.Import)
			salesGroup.PUT("/:id", salesHandler.Update)
			salesGroup.DELETE("/:id", salesHandler.Delete)
			salesGroup.GET("/trend", salesHandler.Trend)
			salesGroup.GET("/ingredient-usage", salesHandler.IngredientUsage)
		}

		wastageHandler := handlers.NewWastageHandler(services.Wastage)
		wastageGroup := tenantGroup.Group("/wastage")
		{
			wastageGroup.GET("", wastageHandler.List)
			wastageGroup.POST("", wastageHandler.Create)
			wastageGroup.PUT("/:id", wastageHandler.Update)
			wastageGroup.DELETE("/:id", wastageHandler.Delete)
			wastageGroup.GET("/trend", wastageHandler.Trend)
			wastageGroup.GET("/impact", wastageHandler.CarbonImpact)
		}

		dashboardHandler := handlers.NewDashboardHandler(services.Dashboard, services.Signals)
		dashboardGroup := tenantGroup.Group("/dashboard")
		{
			dashboardGroup.GET("/summary", dashboardHandler.GetSummary)
		}

		signalGroup := tenantGroup.Group("/signals")
		{
			signalGroup.GET("/holidays", dashboardHandler.GetHolidays)
			signalGroup.POST("/sync", dashboardHandler.SyncSignals)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
