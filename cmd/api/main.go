package main

import (
	"os"
	"time"

	_ "saleshub/api/swagger" // swagger docs
	"saleshub/internal/database"
	"saleshub/internal/handler"
	"saleshub/internal/middleware"
	"saleshub/internal/repository"
	"saleshub/internal/service"
	"saleshub/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           SalesHub API
// @version         1.0
// @description     Retail distribution backend: catalog, stock, orders, deliveries and reports.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if os.Getenv("GIN_MODE") != "release" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}

	if err := godotenv.Load("configs/.env"); err != nil {
		log.Info().Msg("No configs/.env file found, using environment")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "saleshub")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Str("host", dbHost).Str("db", dbName).Msg("connected to PostgreSQL")

	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	deliveryLogRepo := repository.NewDeliveryLogRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	userService := service.NewUserService(userRepo, auditRepo)
	productService := service.NewProductService(productRepo, categoryRepo, auditRepo, txManager)
	stockService := service.NewStockService(productRepo, movementRepo)
	discountService := service.NewDiscountService(userRepo)
	orderService := service.NewOrderService(productRepo, orderRepo, userRepo, auditRepo, stockService, discountService, txManager, wsHub)
	deliveryService := service.NewDeliveryService(orderRepo, deliveryLogRepo, auditRepo, txManager, wsHub)
	reportService := service.NewReportService(orderRepo, time.Now)

	// Handlers
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService, deliveryService, stockService)
	reportHandler := handler.NewReportHandler(reportService)
	auditHandler := handler.NewAuditHandler(auditRepo)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	userHandler.RegisterRoutes(router.Group(""))
	productHandler.RegisterRoutes(router.Group(""))
	orderHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")

	log.Info().Str("port", port).Msg("server listening")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
