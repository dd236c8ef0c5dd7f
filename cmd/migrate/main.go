package main

import (
	"fmt"
	"log"
	"os"

	"binwatch-backend/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Get database URL
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// Connect to database
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	// Create tables and indexes
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migration completed successfully!")

	// Seed default accounts and demo fleet
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	if err := database.SeedBins(db); err != nil {
		log.Fatalf("Bin seeding failed: %v", err)
	}

	// Query and display summary
	var result struct {
		TotalBins    int `db:"total_bins"`
		BreachedBins int `db:"breached_bins"`
		TotalUsers   int `db:"total_users"`
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM bins) AS total_bins,
			(SELECT COUNT(*) FROM bins WHERE sla_status = 'BREACHED') AS breached_bins,
			(SELECT COUNT(*) FROM users) AS total_users
	`

	if err := db.Get(&result, query); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	// Display results
	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Total bins:              %d\n", result.TotalBins)
	fmt.Printf("Breached bins:           %d\n", result.BreachedBins)
	fmt.Printf("Total users:             %d\n", result.TotalUsers)
	fmt.Println("============================================================")
}
