package database

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding default users...")

	users := []struct {
		email    string
		password string
		name     string
		role     string
	}{
		{"admin@binwatch.app", "admin123", "Admin", "admin"},
		{"manager@binwatch.app", "manager123", "Fleet Manager", "manager"},
	}

	for _, u := range users {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		_, err = db.Exec(`
			INSERT INTO users (id, email, password, name, role)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), u.email, string(hashed), u.name, u.role)
		if err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d users", len(users))
	return nil
}

func SeedBins(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM bins"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Bins already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo bins...")

	now := time.Now().Unix()
	hoursAgo := func(h int64) int64 { return now - h*3600 }

	bins := []struct {
		locationName  string
		zone          string
		lat, lng      float64
		lastCollected *int64
		overflowCount int
	}{
		{"Guadalupe River Park North Entrance", "downtown", 37.3382, -121.8914, ptr(hoursAgo(6)), 0},
		{"Plaza de Cesar Chavez Park", "downtown", 37.3304, -121.8881, ptr(hoursAgo(26)), 1},
		{"San Pedro Square Market", "downtown", 37.3366, -121.8941, ptr(hoursAgo(14)), 2},
		{"Santana Row Shopping Center", "west", 37.3209, -121.9476, ptr(hoursAgo(30)), 0},
		{"Winchester Office Park", "west", 37.3239, -121.9501, ptr(hoursAgo(50)), 0},
		{"The Alameda Cafe Corner", "west", 37.3333, -121.9146, ptr(hoursAgo(10)), 0},
		{"Japantown Residential Block 4", "north", 37.3487, -121.8949, ptr(hoursAgo(40)), 1},
		{"N 13th St Apartment Complex", "north", 37.3530, -121.8893, nil, 0},
		{"Berryessa Commercial District", "north", 37.3684, -121.8743, ptr(hoursAgo(20)), 0},
		{"Kelley Park Tourist Plaza", "east", 37.3266, -121.8603, ptr(hoursAgo(55)), 3},
		{"Alum Rock Food Court", "east", 37.3666, -121.8276, ptr(hoursAgo(8)), 0},
		{"Eastridge Mall West Gate", "east", 37.3254, -121.8100, ptr(hoursAgo(28)), 1},
	}

	for _, b := range bins {
		_, err := db.Exec(`
			INSERT INTO bins (id, location_name, zone, latitude, longitude, last_collected_at, overflow_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.New().String(), b.locationName, b.zone, b.lat, b.lng, b.lastCollected, b.overflowCount)
		if err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d bins", len(bins))
	return nil
}

func ptr(v int64) *int64 {
	return &v
}
