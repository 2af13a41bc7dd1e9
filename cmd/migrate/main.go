package main

import (
	"log"
	"os"

	"bintrack-backend/internal/database"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Standalone migration runner for deploy pipelines that migrate before the
// server boots.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed successfully!")

	if os.Getenv("SEED_DEMO_COMPANY") == "true" {
		if err := database.SeedCompany(db); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Demo company seeded successfully!")
	}
}
