package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/justsurfingit/talentbridge/internal/auth"
	"github.com/justsurfingit/talentbridge/internal/client"
	"github.com/justsurfingit/talentbridge/internal/config"
	"github.com/justsurfingit/talentbridge/internal/database"
	"github.com/justsurfingit/talentbridge/internal/handlers"
	"github.com/justsurfingit/talentbridge/internal/queue"
	"github.com/justsurfingit/talentbridge/internal/services"
	"github.com/justsurfingit/talentbridge/internal/session"
)

func main() {
	// 1. Load Environment Variables
	cfg := config.Load()
	cfg.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Session Store
	store, err := openSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	sess := session.New(store)

	// 3. Backend Client
	api, err := client.New(cfg.APIURL, sess,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithUploadTimeout(cfg.UploadTimeout),
	)
	if err != nil {
		log.Fatalf("Invalid TALENTBRIDGE_API_URL: %v", err)
	}
	log.Printf("Backend: %s", cfg.APIURL)

	// 4. Market Insights
	llmService := services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	insights, err := services.NewInsightService(llmService, cfg.InsightsTTL)
	if err != nil {
		log.Fatalf("Failed to load insights schema: %v", err)
	}
	if err := insights.Start(cfg.InsightsCron); err != nil {
		log.Fatalf("Failed to schedule insights refresh: %v", err)
	}

	// 5. Resume Upload Queue
	uploads := openQueue(cfg)
	resumeService := services.NewResumeService(api, uploads)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := resumeService.Run(ctx); err != nil {
			log.Printf("❌ Resume worker stopped: %v", err)
		}
	}()

	// 6. Google Sign In
	google := auth.NewGoogleAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	// 7. Initialize Handlers
	h := handlers.NewHandler(api, google,
		services.NewJobService(api, insights),
		services.NewDashboardService(api),
		services.NewProfileService(api),
		resumeService,
		services.NewCareerService(api, insights),
	)

	// 8. Setup Router, CORS & Routes
	r := h.NewRouter(cfg.CORSOrigins)
	if len(cfg.CORSOrigins) == 0 {
		log.Println("CORS_ORIGINS not set, cross-origin requests are refused")
	}

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		log.Printf("🚀 Server starting on %s...", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server shutdown: %v", err)
	}
	insights.Stop()
	if err := uploads.Close(); err != nil {
		log.Printf("⚠️  Queue close: %v", err)
	}
	<-workerDone
	log.Println("👋 Bye")
}

func openSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.SessionStore {
	case "memory":
		log.Println("Session store: memory")
		return session.NewMemoryStore(), nil
	case "db":
		db, err := database.Connect(cfg.SessionDBDriver, cfg.SessionDBDSN)
		if err != nil {
			return nil, err
		}
		log.Println("Session store: database")
		return session.NewDBStore(db), nil
	default:
		log.Printf("Session store: file %s", cfg.SessionFile)
		return session.NewFileStore(cfg.SessionFile), nil
	}
}

// openQueue prefers RabbitMQ and falls back to the in-process queue.
func openQueue(cfg *config.Config) queue.Queue {
	if cfg.RabbitMQURL != "" {
		q, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err == nil {
			log.Println("✅ RabbitMQ connected")
			return q
		}
		log.Printf("⚠️  RabbitMQ unavailable, using in-memory queue: %v", err)
	}
	return queue.NewMemoryQueue(cfg.UploadQueueSize)
}
