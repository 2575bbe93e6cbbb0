package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"careerlab/cv-match/internal/config"
	"careerlab/cv-match/internal/handlers"
	"careerlab/cv-match/internal/repositories"
	"careerlab/cv-match/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	matchRepo := repositories.NewMatchRepository(db)
	quizRepo := repositories.NewQuizRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	documentService := services.NewDocumentService()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.EmbeddingModel,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	embedder := services.NewGeminiEmbedder(geminiService, cfg.Gemini.EmbeddingModel)
	matcher := services.NewMatcherService(embedder)
	extractor := services.NewExtractionService(geminiService, cfg.Gemini.RetryMaxAttempts)
	quizService := services.NewQuizService(geminiService, cfg.Gemini.RetryMaxAttempts)
	evaluator := services.NewQuizEvaluator(services.NewGeminiVerifier(geminiService))

	// Initialize Qdrant
	vectorStore, err := services.NewJobVectorStore(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := vectorStore.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(
		storageService,
		documentService,
		cfg.Storage.MaxFileSize,
	)
	parseHandler := handlers.NewParseHandler(extractor)
	matchHandler := handlers.NewMatchHandler(matcher, matchRepo, embedder, vectorStore)
	quizHandler := handlers.NewQuizHandler(quizService, evaluator, quizRepo, matchRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CV Match API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":          "healthy",
			"embedding_model": embedder.ModelName(),
			"model_available": embedder.Available(),
			"time":            time.Now(),
		})
	})

	// API endpoints
	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/parse-cv", parseHandler.HandleParseCV)
	api.Post("/parse-job", parseHandler.HandleParseJob)
	api.Post("/match", matchHandler.HandleMatch)
	api.Get("/matches", matchHandler.HandleListMatches)
	api.Get("/match/:id", matchHandler.HandleGetMatch)
	api.Get("/match/:id/report", matchHandler.HandleGetMatchReport)
	api.Delete("/match/:id", matchHandler.HandleDeleteMatch)
	api.Post("/similar-jobs", matchHandler.HandleSimilarJobs)
	api.Post("/quiz/generate", quizHandler.HandleGenerateQuiz)
	api.Post("/quiz/evaluate", quizHandler.HandleEvaluateQuiz)
	api.Get("/quiz/:id", quizHandler.HandleGetQuiz)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Match API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"POST /api/v1/parse-cv",
				"POST /api/v1/parse-job",
				"POST /api/v1/match",
				"GET /api/v1/matches",
				"GET /api/v1/match/:id",
				"GET /api/v1/match/:id/report",
				"DELETE /api/v1/match/:id",
				"POST /api/v1/similar-jobs",
				"POST /api/v1/quiz/generate",
				"POST /api/v1/quiz/evaluate",
				"GET /api/v1/quiz/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
