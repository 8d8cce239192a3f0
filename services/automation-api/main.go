package main

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fixbroin/wecanfix-backend/pkg/apihelpers"
	"github.com/fixbroin/wecanfix-backend/pkg/marketing"
	smtpclient "github.com/fixbroin/wecanfix-backend/pkg/smtp-client"
	"github.com/fixbroin/wecanfix-backend/services/automation-api/apihandlers"
)

func main() {
	// Start webserver
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.GinConfig.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine := marketing.NewEngine(marketing.EngineConfig{
		Settings:        marketingDBService,
		Users:           storefrontDBService,
		Catalog:         catalogDBService,
		Sender:          smtpclient.NewSmtpClient(),
		RunLock:         marketingDBService,
		SentLog:         marketingDBService,
		DispatchTimeout: conf.Intervals.DispatchTimeout,
		RunLockTTL:      conf.Intervals.RunLockTTL,
	})

	// Add handlers
	router.GET("/", apihandlers.HealthCheckHandle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	root := router.Group("/")
	apiModule := apihandlers.NewHTTPHandler(
		conf.TriggerSecret,
		engine,
	)
	apiModule.AddRoutes(root)

	if conf.GinConfig.DebugMode {
		apihelpers.WriteRoutesToFile(router, "automation-api-routes.txt")
	}

	slog.Info("Starting Automation API on port " + conf.GinConfig.Port)
	err := router.Run(":" + conf.GinConfig.Port)
	if err != nil {
		slog.Error("Exited Automation API", slog.String("error", err.Error()))
		return
	}
}
