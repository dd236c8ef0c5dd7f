package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 Database URL length: %d characters", len(dbURL))
	log.Printf("   📍 URL prefix: %s...", dbURL[:min(30, len(dbURL))])
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	log.Println("🔄 Step 1: Attempting sqlx.Connect()...")
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Println("❌ DATABASE CONNECTION FAILED AT sqlx.Connect()")
		log.Printf("   Error type: %T", err)
		log.Printf("   Error message: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("✅ Step 1 Complete: sqlx.Connect() succeeded")

	log.Println("🔄 Step 2: Testing connection with Ping()...")
	if err := db.Ping(); err != nil {
		log.Println("❌ DATABASE CONNECTION FAILED AT Ping()")
		log.Printf("   Error type: %T", err)
		log.Printf("   Error message: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("✅ Step 2 Complete: Ping() succeeded")

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('manager', 'admin')),
			fcm_token TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create bins table
		// risk_score, sla_* and overflow prediction columns are snapshots of
		// the last engine sweep; the engine itself never touches the database
		`CREATE TABLE IF NOT EXISTS bins (
			id TEXT PRIMARY KEY,
			location_name TEXT NOT NULL,
			zone TEXT NOT NULL DEFAULT 'default',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			last_collected_at BIGINT,
			overflow_count INT NOT NULL DEFAULT 0 CHECK(overflow_count >= 0),
			sla_duration INT CHECK(sla_duration > 0),
			risk_score INT NOT NULL DEFAULT 0 CHECK(risk_score BETWEEN 0 AND 100),
			sla_status TEXT CHECK(sla_status IN ('ON_TIME', 'AT_RISK', 'BREACHED')),
			sla_progress DOUBLE PRECISION,
			sla_checked_at BIGINT,
			will_overflow BOOLEAN,
			overflow_confidence DOUBLE PRECISION,
			hours_until_overflow INT,
			predicted_at BIGINT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create reports table (immutable after submission)
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			bin_id TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('empty', 'half', 'full')),
			credibility_score DOUBLE PRECISION NOT NULL CHECK(credibility_score BETWEEN 0 AND 1),
			description TEXT NOT NULL DEFAULT '',
			created_at BIGINT,
			FOREIGN KEY (bin_id) REFERENCES bins(id) ON DELETE CASCADE
		)`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_bins_zone ON bins(zone)`,
		`CREATE INDEX IF NOT EXISTS idx_bins_risk_score ON bins(risk_score)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_bin_id ON reports(bin_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_bin_created ON reports(bin_id, created_at)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
