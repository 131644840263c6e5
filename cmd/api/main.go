package main

import (
	"context"
	"net/http"

	"ordinance-map/internal/config"
	_ "ordinance-map/internal/docs"
	"ordinance-map/internal/handler"
	"ordinance-map/internal/logger"
	"ordinance-map/internal/metrics"
	"ordinance-map/internal/repository"
	"ordinance-map/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	l := logger.Setup(config.LogLevel, config.LogFormat)

	// Data source
	var source service.DocumentSource
	switch config.DataSource {
	case "postgres":
		conn, err := pgxpool.New(context.Background(), config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()
		source = repository.NewRepository(conn)
	default:
		source = repository.NewFileSource(config.DataFile)
	}

	city, _ := config.HomeCity()

	// Initialize layers
	viewerService := service.NewViewerService(source, service.Options{
		Padding:     config.ViewPadding,
		SearchLimit: config.SearchLimit,
		Home:        city.Bound(),
	})

	// A failed load is kept as the visible error state; the API still starts.
	if err := viewerService.Load(context.Background()); err != nil {
		log.Error().Err(err).Msg("starting without data")
	}

	viewerHandler := handler.NewViewerHandler(viewerService)

	r := gin.New()
	r.Use(gin.Recovery(), logger.AccessLog(l), metrics.Middleware())

	viewerHandler.Register(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	log.Info().Str("address", config.ServerAddress).Msg("listening")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
