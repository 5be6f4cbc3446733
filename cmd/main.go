package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalog-service/internal/config"
	"catalog-service/internal/events"
	"catalog-service/internal/handlers"
	"catalog-service/internal/importer"
	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
	"catalog-service/internal/storage"
)

// catalogStore bundles the repositories the import pipeline reads and
// writes through.
type catalogStore struct {
	categories *repository.CategoriesRepository
	products   *repository.ProductsRepository
}

func (s *catalogStore) ListActiveCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	return s.categories.ListActiveCategories(ctx, tenantID)
}

func (s *catalogStore) ListSubcategories(ctx context.Context, tenantID string) ([]models.Subcategory, error) {
	return s.categories.ListSubcategories(ctx, tenantID)
}

func (s *catalogStore) InsertProduct(ctx context.Context, product *models.Product) (string, error) {
	return s.products.InsertProduct(ctx, product)
}

// importEventSink tags pipeline-committed products with the import source.
type importEventSink struct {
	publisher *events.Publisher
}

func (s importEventSink) ProductCreated(tenantID, productID, name, categoryID string) {
	s.publisher.PublishProductCreated(tenantID, productID, name, categoryID, "import")
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		logger.WithError(err).Fatal("Failed to ping MongoDB")
	}
	db := mongoClient.Database(cfg.MongoDB)
	logger.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")

	// Redis backs list caches only; the service runs fine without it.
	var redisClient *redis.Client
	if opts, err := redis.ParseURL(cfg.RedisURL); err != nil {
		logger.WithError(err).Warn("Invalid REDIS_URL, caching disabled")
	} else {
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("Redis unreachable, caching disabled")
			redisClient = nil
		}
	}

	categoriesRepo := repository.NewCategoriesRepository(db)
	productsRepo := repository.NewProductsRepository(db, redisClient)
	assetsRepo := repository.NewAssetsRepository(db)

	// Without object storage, filename image references in import archives
	// are skipped with a warning.
	var objectStorage importer.ObjectStorage
	if cfg.MinioEndpoint != "" {
		minioStorage, err := storage.New(ctx, storage.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to object storage")
		}
		objectStorage = minioStorage
		logger.WithField("bucket", cfg.MinioBucket).Info("Connected to object storage")
	} else {
		logger.Warn("MINIO_ENDPOINT not set, import image uploads disabled")
	}

	var publisher *events.Publisher
	if cfg.NatsURL != "" {
		publisher, err = events.NewPublisher(cfg.NatsURL, logger)
		if err != nil {
			logger.WithError(err).Warn("NATS unreachable, event publishing disabled")
		} else {
			defer publisher.Close()
			logger.Info("Connected to NATS")
		}
	}

	store := &catalogStore{categories: categoriesRepo, products: productsRepo}
	pipeline := importer.NewPipeline(store, objectStorage, assetsRepo, importEventSink{publisher: publisher}, logger)

	importHandler := handlers.NewImportHandler(pipeline, categoriesRepo, publisher, logger, cfg.MaxImportFileBytes)
	productsHandler := handlers.NewProductsHandler(productsRepo, categoriesRepo, publisher)
	categoriesHandler := handlers.NewCategoriesHandler(categoriesRepo)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.MaxMultipartMemory = cfg.MaxImportFileBytes

	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.ReadyCheck(mongoClient))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	api.Use(middleware.TenantMiddleware())
	{
		api.GET("/products", productsHandler.GetProducts)
		api.POST("/products", productsHandler.CreateProduct)
		api.GET("/products/import/template", importHandler.GetImportTemplate)
		api.POST("/products/import", importHandler.ImportProducts)
		api.GET("/products/:id", productsHandler.GetProduct)
		api.PUT("/products/:id", productsHandler.UpdateProduct)
		api.DELETE("/products/:id", productsHandler.DeleteProduct)

		api.GET("/categories", categoriesHandler.GetCategories)
		api.POST("/categories", categoriesHandler.CreateCategory)
		api.GET("/categories/:id", categoriesHandler.GetCategory)
		api.PUT("/categories/:id", categoriesHandler.UpdateCategory)
		api.DELETE("/categories/:id", categoriesHandler.DeleteCategory)

		api.GET("/subcategories", categoriesHandler.GetSubcategories)
		api.POST("/subcategories", categoriesHandler.CreateSubcategory)
		api.GET("/subcategories/:id", categoriesHandler.GetSubcategory)
		api.PUT("/subcategories/:id", categoriesHandler.UpdateSubcategory)
		api.DELETE("/subcategories/:id", categoriesHandler.DeleteSubcategory)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Catalog service starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
	_ = mongoClient.Disconnect(shutdownCtx)
}
