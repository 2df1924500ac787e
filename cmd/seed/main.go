package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"aits/internal/config"
	"aits/internal/db"
	"aits/internal/model"
	"aits/internal/repository"
	"aits/internal/service"
	"aits/internal/validation"
)

//go:embed users.json
var usersFixture []byte

// SeedUser is one entry of the embedded fixture.
type SeedUser struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Role          string `json:"role"`
	StudentNumber string `json:"student_number"`
	Programme     string `json:"programme"`
	YearOfStudy   int    `json:"year_of_study"`
	StaffNumber   string `json:"staff_number"`
	Department    string `json:"department"`
	College       string `json:"college"`
}

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	users, err := parseFixture(usersFixture)
	if err != nil {
		log.Fatalf("Failed to parse fixture: %v", err)
	}
	log.Printf("Loaded %d users from fixture", len(users))

	// Registration does not touch tokens.
	authService := service.NewAuthService(repository.NewUserRepository(gormDB), nil, cfg.BcryptCost)

	log.Println("Seeding users into database...")
	created, skipped, err := seedUsers(context.Background(), authService, users)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users skipped: %d", skipped)
}

func parseFixture(data []byte) ([]SeedUser, error) {
	var users []SeedUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

// seedUsers registers every fixture user. Usernames that already exist are
// skipped so the command can be re-run.
func seedUsers(ctx context.Context, auth service.AuthService, users []SeedUser) (created int, skipped int, err error) {
	for _, u := range users {
		_, err := auth.Register(ctx, service.RegisterInput{
			Username:      u.Username,
			Password:      u.Password,
			Email:         u.Email,
			FirstName:     u.FirstName,
			LastName:      u.LastName,
			Role:          model.Role(u.Role),
			StudentNumber: u.StudentNumber,
			Programme:     u.Programme,
			YearOfStudy:   u.YearOfStudy,
			StaffNumber:   u.StaffNumber,
			Department:    u.Department,
			College:       u.College,
		})
		if err != nil {
			var verrs validation.Errors
			if errors.As(err, &verrs) {
				if _, dup := verrs["username"]; dup {
					log.Printf("Skipping existing user %s", u.Username)
					skipped++
					continue
				}
			}
			return created, skipped, fmt.Errorf("error creating user %s: %w", u.Username, err)
		}
		created++
	}
	return created, skipped, nil
}
