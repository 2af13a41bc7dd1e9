package main

import (
	"log"
	"net/http"
	"os"

	"bintrack-backend/internal/database"
	"bintrack-backend/internal/handlers"
	"bintrack-backend/internal/middleware"
	"bintrack-backend/internal/models"
	"bintrack-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 BINTRACK BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	log.Println("🔍 Checking DATABASE_URL environment variable...")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: DATABASE_URL environment variable is required")
		log.Println("   Please set DATABASE_URL in your host variables or .env file")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal("DATABASE_URL environment variable is required")
	}
	log.Println("✅ DATABASE_URL found")

	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer db.Close()
	log.Println("✅ Database connection established")

	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database migrations failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Database migrations completed")

	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedCompany(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Seeding failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Demo company seeded successfully")

	// Initialize Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials (for cloud deployments)
	var alertService *services.AlertService
	fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64")
	fcmCredentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
	if fcmCredentialsFile == "" {
		fcmCredentialsFile = "./firebase-service-account.json"
	}

	if fcmCredsBase64 != "" {
		alertService, err = services.NewAlertServiceFromBase64(fcmCredsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			alertService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		alertService, err = services.NewAlertService(fcmCredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			alertService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// QR image rendering + upload. Falls back to local paths when no bucket
	// is configured.
	qrService, err := services.NewQRService(fcmCredsBase64, fcmCredentialsFile, os.Getenv("QR_STORAGE_BUCKET"))
	if err != nil {
		log.Printf("⚠️  Failed to initialize QR storage: %v (QR images served locally)", err)
		qrService = nil
	} else {
		log.Println("✅ QR code service initialized")
	}

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
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
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

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			// Tag scanning (mobile)
			r.Post("/bin-tags/scan", handlers.ScanBinTag(db))
			r.Post("/qr-scan-logs/scan", handlers.RecordScan(db, alertService))
			r.Get("/qr-scan-logs", handlers.GetQrScanLogs(db))

			// Tag registry
			r.Get("/bin-tags", handlers.GetBinTags(db))
			r.Post("/bin-tags", handlers.CreateBinTag(db, qrService))
			r.Patch("/bin-tags/{id}", handlers.UpdateBinTag(db))
			r.Put("/bin-tags/{id}/status", handlers.SetBinTagStatus(db))
			r.Delete("/bin-tags/{id}", handlers.DeleteBinTag(db))
			r.Post("/bin-tags/bulk-delete", handlers.BulkDeleteBinTags(db))

			// Properties
			r.Get("/properties", handlers.GetProperties(db))

			// Reports
			r.Get("/reports/service-route-summary", handlers.ServiceRouteSummary(db))
			r.Get("/reports/missed-route-checkpoints", handlers.MissedRouteCheckpoints(db))
			r.Get("/reports/checkin-checkout-historical-report", handlers.CheckinCheckoutHistoricalReport(db))
			r.Get("/reports/service-report", handlers.ServiceReport(db))
			r.Get("/reports/recycle-summary", handlers.RecycleReportSummary(db))
			r.Get("/reports/recycle-reports", handlers.GetRecycleReports(db))
			r.Get("/reports/task-status", handlers.TaskStatusReport(db))
			r.Get("/reports/employee-clock-log", handlers.EmployeeClockLogReport(db))
			r.Get("/reports/property-check-logs", handlers.GetPropertyCheckLogs(db))

			// Property check-in/out (mobile)
			r.Post("/property-check-logs/check-in", handlers.PropertyCheckIn(db))
			r.Post("/property-check-logs/check-out", handlers.PropertyCheckOut(db))

			// Dashboard
			r.Get("/property-manager/dashboard", handlers.PropertyManagerDashboard(db))

			// Operational creates
			r.Post("/violations", handlers.CreateViolation(db))
			r.Post("/service-notes", handlers.CreateServiceNote(db))
			r.Post("/schedules", handlers.CreateSchedule(db))
			r.Post("/tasks", handlers.CreateTask(db, alertService))
			r.Post("/tasks/{id}/logs", handlers.CreateTaskLog(db))

			// FCM token registration
			r.Post("/fcm-token", handlers.RegisterFCMToken(db))
		})

		// Admin endpoints (require authentication + admin role)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))

			r.Post("/users", handlers.CreateUser(db))
			r.Post("/properties", handlers.CreateProperty(db, qrService))
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
