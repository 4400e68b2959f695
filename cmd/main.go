package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yungbote/solstice-backend/internal/clients/redis"
	"github.com/yungbote/solstice-backend/internal/db"
	"github.com/yungbote/solstice-backend/internal/handlers"
	"github.com/yungbote/solstice-backend/internal/logger"
	"github.com/yungbote/solstice-backend/internal/middleware"
	"github.com/yungbote/solstice-backend/internal/repos"
	"github.com/yungbote/solstice-backend/internal/server"
	"github.com/yungbote/solstice-backend/internal/services"
	"github.com/yungbote/solstice-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

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

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	routineRepo := repos.NewRoutineRepo(thePG, log)
	contentItemRepo := repos.NewContentItemRepo(thePG, log)

	// Redis parse cache (optional)
	parseCache, err := redis.NewParseCache(log)
	if err != nil {
		log.Warn("Could not init ParseCache, parsing runs uncached", "error", err)
		parseCache = nil
	}

	// Services
	log.Info("Setting up Services from main...")
	llmClient, err := services.NewOpenRouterClient(log)
	if err != nil {
		log.Error("Could not init OpenRouterClient", "error", err)
		os.Exit(1)
	}
	segmentationService := services.NewSegmentationService(log, llmClient, parseCache)
	cueService := services.NewCueService(log, llmClient)
	routineService := services.NewRoutineService(thePG, log, routineRepo, contentItemRepo)
	recommendationService := services.NewRecommendationService(thePG, log, llmClient, routineRepo)

	syncers := map[string]services.Syncer{}
	for _, platform := range []string{"instagram", "tiktok", "pinterest", "youtube"} {
		feedURL := utils.GetEnv("CONNECTION_FEED_URL_"+strings.ToUpper(platform), "", log)
		if feedURL == "" {
			continue
		}
		syncers[platform] = services.NewFeedSyncer(log, platform, feedURL)
	}
	connectionService := services.NewConnectionService(thePG, log, contentItemRepo, syncers)

	// Handlers
	log.Info("Setting up handlers from main...")
	parseHandler := handlers.NewParseHandler(log, segmentationService, cueService)
	routineHandler := handlers.NewRoutineHandler(log, routineService)
	recommendHandler := handlers.NewRecommendHandler(log, recommendationService)
	contentHandler := handlers.NewContentHandler(log, connectionService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:   authMiddleware,
		ParseHandler:     parseHandler,
		RoutineHandler:   routineHandler,
		RecommendHandler: recommendHandler,
		ContentHandler:   contentHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
