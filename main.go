// File: grotto/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grotto/config"
	"grotto/database"
	callrecordsRepo "grotto/database/repository/callrecords"
	"grotto/handlers"
	"grotto/middleware"
	"grotto/routes"
	"grotto/services/call"
	ai "grotto/services/intelligence"
	"grotto/services/speech"
	"grotto/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCallerCache()

	ctx := context.Background()

	geminiClient, err := ai.NewGeminiClient(ctx, config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize Gemini client: %v", err)
	}

	var transcriber *speech.Transcriber
	if config.AppConfig.GoogleServiceAccountFile != "" {
		transcriber, err = speech.NewTranscriber(ctx, config.AppConfig.GoogleServiceAccountFile, logger)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize speech transcriber: %v", err)
		}
		defer transcriber.Close()
	} else {
		logger.Sugar().Warn("main: no speech credentials configured, media transcription disabled")
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	recordRepo := callrecordsRepo.NewMongoCallRecordRepo()

	// services.
	agent := ai.NewAgent(geminiClient)
	extractor := ai.NewGeminiExtractor(geminiClient)
	callerStore := ai.NewRedisCallerStore(utils.GetCallerCacheClient(), 30*24*time.Hour)

	callManager := call.NewManager(agent, extractor, recordRepo, callerStore, call.Options{
		ExtractionInterval:   time.Duration(config.AppConfig.ExtractionIntervalSec) * time.Second,
		PassTimeout:          time.Duration(config.AppConfig.ExtractionPassSec) * time.Second,
		FinalizeTimeout:      time.Duration(config.AppConfig.FinalizeTimeoutSec) * time.Second,
		ContextWindow:        config.AppConfig.ContextWindowTurns,
		MaxGeneratorFailures: config.AppConfig.MaxGeneratorFailures,
		MaxActiveCalls:       config.AppConfig.MaxActiveCalls,
	}, logger)

	callHandler := handlers.NewCallHandler(callManager, transcriber, logger)
	recordsHandler := handlers.NewRecordsHandler(recordRepo)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Telephony endpoints.
		VoiceWebhookHandler: callHandler.VoiceWebhookHandler,
		MediaStreamHandler:  callHandler.MediaStreamHandler,

		// Call record endpoints.
		GetCallRecordHandler:    recordsHandler.GetCallRecordHandler,
		GetCallerRecordsHandler: recordsHandler.GetCallerRecordsHandler,
		DeleteCallRecordHandler: recordsHandler.DeleteCallRecordHandler,

		// Inventory endpoints.
		ListCarsHandler:   handlers.ListCarsHandler,
		SearchCarsHandler: handlers.SearchCarsHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
