package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"
	"tour-companion/internal/config"
	"tour-companion/internal/domain/entities"
	Iservices "tour-companion/internal/domain/interfaces/services"
	"tour-companion/internal/infra/handlers"
	"tour-companion/internal/infra/logger"
	"tour-companion/internal/infra/provider"
	"tour-companion/internal/infra/repository"
	"tour-companion/internal/infra/routes"
	"tour-companion/internal/infra/services"
	"tour-companion/internal/middleware"
	client "tour-companion/internal/pkg"

	"github.com/gorilla/mux"
)

func main() {
	config.LoadEnv()

	ctx := context.Background()
	log := logger.NewLogger(ctx, true)

	mongoClient := client.MongoClient()
	companionDB := mongoClient.Database("TourCompanion")

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	settingsRepo := repository.NewMongoRepository[entities.SettingsRecord](companionDB, "_id")
	completionRepo := repository.NewMongoRepository[entities.TourCompletion](companionDB, "key")

	httpClient := http.Client{}

	catalogPath := config.GetEnvDefault("TOUR_CATALOG_PATH", "tour_catalog.yaml")
	catalogProvider, err := provider.NewYamlTourCatalogProvider(log, catalogPath)
	if err != nil {
		log.Fatal(fmt.Sprintf("Error to load tour catalog: %v", err))
	}

	speechProvider := provider.NewHttpSpeechProvider(log, &httpClient)

	promptDelay := services.DefaultFirstPromptDelay
	if raw := config.GetEnvDefault("FIRST_PROMPT_DELAY_MS", ""); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil {
			promptDelay = time.Duration(ms) * time.Millisecond
		}
	}

	var tourSvc Iservices.ITourService = services.NewTourService(catalogProvider, speechProvider, completionRepo, ctx, log, promptDelay)
	var settingsSvc Iservices.ISettingsService = services.NewSettingsService(settingsRepo, ctx, log)

	// Initial read-through of the settings row. A failure here is logged and
	// the cache stays empty until a refetch succeeds.
	settingsSvc.Fetch()

	tourHandlers := handlers.NewTourHandlers(log, tourSvc, speechProvider)
	settingsHandlers := handlers.NewSettingsHandlers(log, settingsSvc)
	eventHandlers := handlers.NewEventHandlers(log, tourSvc)

	routes := routes.NewRoutes(
		router,
		tourHandlers,
		settingsHandlers,
		eventHandlers,
	)

	routes.Init()

	port := config.GetEnvDefault("PORT", "8080")
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}
