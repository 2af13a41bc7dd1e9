package database

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// SeedCompany creates the demo company and one user per role so a fresh
// install is immediately usable. Idempotent: skips when users exist.
func SeedCompany(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo company and users...")

	now := time.Now().Unix()
	companyID := uuid.New().String()

	_, err := db.Exec(`
		INSERT INTO companies (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
	`, companyID, "BinTrack Demo Co", now)
	if err != nil {
		return err
	}

	users := []struct {
		email string
		name  string
		role  string
	}{
		{"superadmin@bintrack.local", "Super Admin", "super_admin"},
		{"admin@bintrack.local", "Company Admin", "admin"},
		{"manager@bintrack.local", "Pat Manager", "property_manager"},
		{"employee@bintrack.local", "Sam Worker", "employee"},
	}

	for _, u := range users {
		hashed, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		companyRef := &companyID
		if u.role == "super_admin" {
			companyRef = nil
		}

		_, err = db.Exec(`
			INSERT INTO users (id, company_id, email, password, name, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		`, uuid.New().String(), companyRef, u.email, string(hashed), u.name, u.role, now)
		if err != nil {
			return err
		}

		log.Printf("   👤 %s (%s)", u.email, u.role)
	}

	log.Println("✅ Seed complete")
	return nil
}
