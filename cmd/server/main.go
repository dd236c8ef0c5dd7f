package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"binwatch-backend/internal/database"
	"binwatch-backend/internal/handlers"
	"binwatch-backend/internal/middleware"
	"binwatch-backend/internal/services"
	"binwatch-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

const (
	slaSweepInterval        = 5 * time.Minute
	predictionSweepInterval = 1 * time.Hour
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 BINWATCH BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Get database URL
	log.Println("🔍 Checking DATABASE_URL environment variable...")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: DATABASE_URL environment variable is required")
		log.Println("   Please set DATABASE_URL in your deployment variables or .env file")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal("DATABASE_URL environment variable is required")
	}
	log.Println("✅ DATABASE_URL found")

	// Connect to database
	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Printf("   Error: %v", err)
		log.Println("   This is usually caused by:")
		log.Println("   1. Wrong DATABASE_URL format")
		log.Println("   2. PostgreSQL service is down")
		log.Println("   3. Network connectivity issue")
		log.Println("   4. Invalid credentials")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer db.Close()
	log.Println("✅ Database connection established")

	// Run migrations
	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database migrations failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Database migrations completed")

	// Seed database
	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedUsers(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: User seeding failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Users seeded successfully")

	if err := database.SeedBins(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Bins seeding failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Bins seeded successfully")

	// Initialize Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials (for cloud deployments)
	var fcmService *services.FCMService
	fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64")

	if fcmCredsBase64 != "" {
		// Use base64-encoded credentials
		fcmService, err = services.NewFCMServiceFromBase64(fcmCredsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		// Fall back to file path (local development)
		fcmCredentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
		if fcmCredentialsFile == "" {
			fcmCredentialsFile = "./firebase-service-account.json"
		}

		fcmService, err = services.NewFCMService(fcmCredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Weather feed and fleet monitor
	weatherService := services.NewWeatherService()
	monitor := services.NewMonitor(db, weatherService, wsHub, fcmService)
	log.Println("✅ Fleet monitor initialized")

	// Background sweeps: SLA every 5 minutes, predictions hourly
	go runSweeps(monitor)
	log.Println("✅ Background sweeps scheduled")

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Authentication routes (no auth required)
	r.Post("/api/auth/login", handlers.Login(db))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public citizen endpoints
		r.Post("/reports", handlers.CreateReport(db, monitor))
		r.Get("/weather", handlers.GetWeather(weatherService))

		// Bins endpoints
		r.Get("/bins", handlers.GetBins(db))
		r.Get("/bins/{id}", handlers.GetBin(db))
		r.Get("/bins/{id}/reports", handlers.GetBinReports(db))
		r.Get("/bins/{id}/risk", handlers.GetBinRisk(db, weatherService))
		r.Get("/bins/{id}/sla", handlers.GetBinSLA(db))
		r.Get("/bins/{id}/prediction", handlers.GetBinPrediction(db))

		// Fleet-wide risk
		r.Get("/risk", handlers.GetFleetRisk(db, weatherService))

		// Analytics
		r.Get("/analytics/breaches", handlers.GetZoneBreaches(db))

		// Manager endpoints (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			// Auth status endpoint
			r.Get("/auth/status", handlers.GetAuthStatus(db))

			// FCM token registration
			r.Post("/auth/fcm-token", handlers.RegisterFCMToken(db))

			// Bin management
			r.Post("/bins", handlers.CreateBin(db))
			r.Patch("/bins/{id}", handlers.UpdateBin(db, monitor))
			r.Post("/bins/{id}/collect", handlers.CollectBin(db, monitor))

			// Workforce planning
			r.Get("/workforce/allocation", handlers.GetWorkforceAllocation(db))
			r.Get("/workforce/optimal", handlers.GetOptimalWorkerCount(db))
			r.Get("/workforce/zones/{zone}/route", handlers.GetZoneRoute(db))

			// What-if simulations
			r.Post("/simulate/skip", handlers.SimulateSkip(db, weatherService))
			r.Post("/simulate/workforce", handlers.SimulateWorkforce(db, weatherService))

			// On-demand sweeps
			r.Post("/monitor/sla", handlers.TriggerSLASweep(monitor))
			r.Post("/monitor/predictions", handlers.TriggerPredictionSweep(monitor))
		})

		// Admin endpoints (require authentication + admin role)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(middleware.RequireRole("admin"))

			r.Delete("/bins/{id}", handlers.DeleteBin(db))

			// User management
			r.Post("/users", handlers.CreateUser(db))
		})
	})

	// Get port
	log.Println("🔍 Checking PORT environment variable...")
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("⚠️  PORT not set, using default: %s", port)
	} else {
		log.Printf("✅ PORT found: %s", port)
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Start server
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Server failed to start")
		log.Printf("   Error: %v", err)
		log.Printf("   Port: %s", port)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
}

// runSweeps drives the recurring fleet passes. SLA breaches need to surface
// quickly; predictions change slowly and run hourly.
func runSweeps(monitor *services.Monitor) {
	slaTicker := time.NewTicker(slaSweepInterval)
	predictionTicker := time.NewTicker(predictionSweepInterval)

	// One pass right away so fresh deployments have snapshots
	if _, err := monitor.MonitorSLA(); err != nil {
		log.Printf("⚠️  [SWEEP] Initial SLA sweep failed: %v", err)
	}
	if _, err := monitor.PredictAllBins(); err != nil {
		log.Printf("⚠️  [SWEEP] Initial prediction sweep failed: %v", err)
	}

	for {
		select {
		case <-slaTicker.C:
			if _, err := monitor.MonitorSLA(); err != nil {
				log.Printf("⚠️  [SWEEP] SLA sweep failed: %v", err)
			}
		case <-predictionTicker.C:
			if _, err := monitor.PredictAllBins(); err != nil {
				log.Printf("⚠️  [SWEEP] Prediction sweep failed: %v", err)
			}
		}
	}
}
