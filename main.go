package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"growthGardenAPI/handlers"
	"growthGardenAPI/internal/workers"
	"growthGardenAPI/middleware"
	"growthGardenAPI/services"
	"growthGardenAPI/storage"
)

var dbPool *pgxpool.Pool

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Println("Warning: CLERK_SECRET_KEY is not set, token verification will fail")
	} else {
		clerk.SetKey(clerkSecretKey)
		log.Println("Clerk initialized successfully")
	}

	middleware.InitPrometheus()
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbPool = storage.Connect(ctx)
	cancel()

	var store storage.Store
	if dbPool != nil {
		defer func() {
			log.Println("Closing database connection pool...")
			dbPool.Close()
		}()
		store = storage.NewPostgresStore(dbPool)
		workers.StartWitherWorker(dbPool)
		log.Println("Storage mode: database")
	} else {
		store = storage.NewMemoryStore()
		log.Println("Storage mode: memory, data will not survive a restart")
	}

	// Services
	aiClient := services.NewAIClientFromEnv(context.Background())
	userService := services.NewUserService(store)
	achievementService := services.NewAchievementService(store)
	gardenService := services.NewGardenService(store, achievementService)
	habitService := services.NewHabitService(store)
	reportService := services.NewReportService(store, aiClient)

	// Handlers
	systemHandler := handlers.NewSystemHandler(store)
	userHandler := handlers.NewUserHandler(userService)
	goalHandler := handlers.NewGoalHandler(gardenService)
	actionHandler := handlers.NewActionHandler(gardenService)
	achievementHandler := handlers.NewAchievementHandler(achievementService)
	habitHandler := handlers.NewHabitHandler(habitService)
	reportHandler := handlers.NewReportHandler(reportService)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(5, 30)
	go rateLimiter.CleanupVisitors()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(rateLimiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", systemHandler.Health).Methods("GET")
	api.HandleFunc("/storage-status", systemHandler.StorageStatus).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	authenticator := middleware.NewAuthenticator(userService)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authenticator.Middleware)

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user", userHandler.UpdateProfile).Methods("PUT")

	// Literal segments before {id} so check-health is not parsed as a goal id.
	protected.HandleFunc("/goals/check-health", goalHandler.CheckHealth).Methods("POST")
	protected.HandleFunc("/goals", goalHandler.GetGoals).Methods("GET")
	protected.HandleFunc("/goals", goalHandler.CreateGoal).Methods("POST")
	protected.HandleFunc("/goals/{id:[0-9]+}", goalHandler.GetGoal).Methods("GET")
	protected.HandleFunc("/goals/{id:[0-9]+}", goalHandler.UpdateGoal).Methods("PUT")
	protected.HandleFunc("/goals/{id:[0-9]+}", goalHandler.DeleteGoal).Methods("DELETE")
	protected.HandleFunc("/goals/{id:[0-9]+}/actions", actionHandler.GetActionsByGoal).Methods("GET")

	protected.HandleFunc("/actions", actionHandler.GetActions).Methods("GET")
	protected.HandleFunc("/actions", actionHandler.CreateAction).Methods("POST")
	protected.HandleFunc("/actions/{id:[0-9]+}/complete", actionHandler.CompleteAction).Methods("PUT")
	protected.HandleFunc("/actions/{id:[0-9]+}/reflection", actionHandler.SaveReflection).Methods("PUT")
	protected.HandleFunc("/actions/{id:[0-9]+}", actionHandler.DeleteAction).Methods("DELETE")

	protected.HandleFunc("/achievements/check", achievementHandler.CheckAchievements).Methods("POST")
	protected.HandleFunc("/achievements", achievementHandler.GetAchievements).Methods("GET")
	protected.HandleFunc("/achievements", achievementHandler.CreateAchievement).Methods("POST")

	protected.HandleFunc("/daily-habits", habitHandler.GetHabitsRange).Methods("GET")
	protected.HandleFunc("/daily-habits", habitHandler.UpsertHabit).Methods("POST")
	protected.HandleFunc("/daily-habits/{date}", habitHandler.GetHabitByDate).Methods("GET")
	protected.HandleFunc("/daily-habits/{date}", habitHandler.UpdateHabit).Methods("PUT")

	protected.HandleFunc("/reports/weekly-reflection", reportHandler.GetWeeklyReport).Methods("GET", "POST")
	protected.HandleFunc("/reports/regenerate-insights", reportHandler.RegenerateInsights).Methods("POST")
	protected.HandleFunc("/reports/historical", reportHandler.GetHistoricalReports).Methods("GET")
	protected.HandleFunc("/reports/historical/{weekStart}", reportHandler.GetHistoricalWeek).Methods("GET")

	// CORS configuration
	allowedOrigins := []string{"*"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		allowedOrigins = strings.Split(raw, ",")
	}
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins(allowedOrigins),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length", "X-Request-ID"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	port = ":" + port

	server := http.Server{
		Addr:        port,
		Handler:     corsHandler(r),
		ReadTimeout: 5 * time.Second,
		// Report endpoints wait on the AI model, keep this above their budget.
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
