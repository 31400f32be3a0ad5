package main

import (
	"fmt"
	"os"

	"github.com/yungbote/interviewday-backend/internal/db"
	"github.com/yungbote/interviewday-backend/internal/handlers"
	"github.com/yungbote/interviewday-backend/internal/logger"
	"github.com/yungbote/interviewday-backend/internal/middleware"
	"github.com/yungbote/interviewday-backend/internal/repos"
	"github.com/yungbote/interviewday-backend/internal/schedule"
	"github.com/yungbote/interviewday-backend/internal/server"
	"github.com/yungbote/interviewday-backend/internal/services"
	"github.com/yungbote/interviewday-backend/internal/sse"
	"github.com/yungbote/interviewday-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Policy
	log.Info("Loading scheduling policy from main...")
	policyPath := utils.GetEnv("POLICY_PATH", "", log)
	policy := schedule.DefaultPolicy()
	if policyPath != "" {
		policy, err = schedule.LoadPolicy(policyPath)
		if err != nil {
			log.Error("Could not load scheduling policy", "path", policyPath, "error", err)
			os.Exit(1)
		}
	}

	// Database
	databaseService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = databaseService.AutoMigrateAll(); err != nil {
		log.Warn("Auto migration failed", "error", err)
	}
	theDB := databaseService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	solveRunRepo := repos.NewSolveRunRepo(theDB, log)
	scheduleRowRepo := repos.NewScheduleRowRepo(theDB, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)

	// Services
	log.Info("Setting up Services from main...")
	tokenService := services.NewTokenService(log)
	solveService := services.NewSolveService(theDB, log, policy, solveRunRepo, scheduleRowRepo, sseHub)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(tokenService)
	solveHandler := handlers.NewSolveHandler(solveService)
	sseHandler := handlers.NewSSEHandler(log, sseHub)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, tokenService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		SolveHandler:   solveHandler,
		SSEHandler:     sseHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
