package main

import (
	"context"
	"net/http"
	"os"

	"styleswipe_server/config"
	"styleswipe_server/routes"
	"styleswipe_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	logger.Info("Initializing DynamoDB client...")
	dynamoClient, err := services.InitializeDynamoDBClient(ctx, cfg.AWS.Region)
	if err != nil {
		logger.Fatal("Failed to initialize DynamoDB client", zap.Error(err))
	}
	dynamoService := &services.DynamoService{Client: dynamoClient, Logger: logger}
	logger.Info("DynamoDB client initialized.")

	// Services
	swipeService := &services.SwipeService{
		Dynamo:              dynamoService,
		Logger:              logger,
		TimezoneOffsetHours: cfg.Ranking.TimezoneOffsetHours,
	}
	rankService := &services.RankService{
		Dynamo:    dynamoService,
		Logger:    logger,
		PoolLimit: cfg.Ranking.PoolLimit,
	}
	analysisService := &services.AnalysisService{
		Client:      services.NewAnalysisClient(cfg.Groq.APIKey, cfg.Groq.BaseURL),
		Logger:      logger,
		Model:       cfg.Groq.Model,
		Temperature: cfg.Groq.Temperature,
		MaxTokens:   cfg.Groq.MaxTokens,
		Timeout:     cfg.Groq.Timeout,
	}
	cardService := &services.CardService{
		Dynamo:    dynamoService,
		Swipes:    swipeService,
		Ranker:    rankService,
		Logger:    logger,
		DailyCap:  cfg.Ranking.DailyCap,
		PoolLimit: cfg.Ranking.PoolLimit,
	}
	preferenceService := &services.PreferenceService{
		Dynamo:              dynamoService,
		Swipes:              swipeService,
		Cards:               cardService,
		Analyzer:            analysisService,
		Logger:              logger,
		FirstAnalysisSwipes: cfg.Analysis.FirstAnalysisSwipes,
		RecentSwipeLimit:    cfg.Analysis.RecentSwipeLimit,
	}
	cardService.Preferences = preferenceService
	sessionService := services.NewSessionService(
		cardService,
		preferenceService,
		swipeService,
		logger,
		cfg.Analysis.FirstAnalysisSwipes,
		cfg.Analysis.ReanalysisStreak,
		cfg.Analysis.ReanalysisCardCount,
	)
	commentService := &services.CommentService{Dynamo: dynamoService, Logger: logger}
	statsService := &services.StatsService{Dynamo: dynamoService, Logger: logger}

	// Router
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods("GET")

	routes.RegisterSessionRoutes(r, sessionService)
	routes.RegisterCardRoutes(r, cardService)
	routes.RegisterPreferenceRoutes(r, preferenceService)
	routes.RegisterCommentRoutes(r, commentService, statsService)

	if cfg.AWS.S3Bucket != "" {
		s3Service, err := services.NewS3Service(ctx, cfg.AWS.Region, cfg.AWS.S3Bucket)
		if err != nil {
			logger.Fatal("Failed to initialize S3 client", zap.Error(err))
		}
		routes.RegisterS3Routes(r, s3Service)
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	logger.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := http.ListenAndServe(":"+cfg.Server.Port, corsHandler); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
