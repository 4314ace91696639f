package main

import (
	"context"
	"net/http"

	"culture-explorer/internal/config"
	"culture-explorer/internal/enrichment"
	"culture-explorer/internal/geocode"
	"culture-explorer/internal/handler"
	"culture-explorer/internal/observability"
	"culture-explorer/internal/repository"
	"culture-explorer/internal/service"
	"culture-explorer/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	// Database connection
	conn, err := pgxpool.New(context.Background(), config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	metrics := observability.NewMetrics()

	// Initialize layers
	repo := repository.NewRepository(conn)

	client := geocode.NewClient(config.NominatimBaseURL, config.NominatimTimeout, config.GeocodeDelay, metrics, log.Logger)
	resolver := geocode.NewCachedResolver(client, metrics)

	coordinator := enrichment.NewCoordinator(resolver, repo, config.EnrichRetryInterval, metrics, log.Logger)
	defer coordinator.Close()

	photos := storage.NewS3PhotoStore(storage.S3Config{
		Region:          config.AWSRegion,
		AccessKeyID:     config.AWSAccessKeyID,
		SecretAccessKey: config.AWSSecretAccessKey,
		Bucket:          config.S3Bucket,
		PublicBaseURL:   config.S3PublicBaseURL,
	})

	entryService := service.NewEntryService(repo, photos)
	mapService := service.NewMapService(repo, coordinator, config.EntryRefreshInterval, log.Logger)
	adminService := service.NewAdminService(repo)

	entryHandler := handler.NewEntryHandler(entryService)
	mapHandler := handler.NewMapHandler(mapService)
	adminHandler := handler.NewAdminHandler(adminService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/entries", entryHandler.List)
	r.GET("/entries/:id", entryHandler.Get)
	r.POST("/entries", entryHandler.Submit)

	r.GET("/map/markers", mapHandler.Markers)

	admin := r.Group("/admin", handler.RequireAdminKey(config.AdminKey))
	admin.GET("/pending", adminHandler.Pending)
	admin.GET("/entries", adminHandler.List)
	admin.POST("/entries/approve", adminHandler.Approve)
	admin.POST("/entries/reject", adminHandler.Reject)
	admin.POST("/entries/delete", adminHandler.Delete)

	r.Run(config.ServerAddress)
}
