package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Udbhav-2025/udbhav-ht100ml011/config"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/database"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/handlers"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/middleware"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/services"
)

func main() {
	config.InitLogger()
	slog.Info("Starting application", "version", "1.0.0")

	cfg := config.Load()
	slog.Info("Configuration loaded successfully",
		"server_port", cfg.Server.Port,
		"gin_mode", cfg.Server.Mode,
		"db_host", cfg.Database.Host,
		"model_runner", cfg.ModelRunner.URL,
	)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db, &models.User{}); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	mongoClient, err := database.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Warn("Failed to disconnect MongoDB", "error", err)
		}
	}()

	runner := services.NewModelRunnerClient(cfg.ModelRunner.URL, cfg.ModelRunner.Timeout)
	predictor := services.NewPredictorService(runner)
	attribution := services.NewAttributionService(runner)
	narrator := services.NewNarrativeService(ctx, cfg.Gemini)
	history := services.NewHistoryService(mongoClient, cfg.Mongo.Database, cfg.Mongo.Collection)
	jwtService := services.NewJWTService(cfg.JWTSecret)
	users := services.NewUserService(db, jwtService)

	predictHandler := handlers.NewPredictHandler(predictor, attribution, narrator, history)
	historyHandler := handlers.NewHistoryHandler(history)
	authHandler := handlers.NewAuthHandler(users)
	jwtMiddleware := middleware.NewJWTMiddleware(jwtService)

	gin.SetMode(cfg.Server.Mode)
	router := handlers.SetupRoutes(predictHandler, historyHandler, authHandler, jwtMiddleware)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // four sequential Gemini calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started successfully", "port", cfg.Server.Port)

	waitForShutdown(server)
}

func waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server gracefully stopped")
}
