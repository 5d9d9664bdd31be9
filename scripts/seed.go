//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/reconova/reconova/internal/auth"
	"github.com/reconova/reconova/internal/database"
	"github.com/reconova/reconova/internal/database/models"
	"github.com/reconova/reconova/pkg/config"
	"github.com/reconova/reconova/pkg/util"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	seedPlans(db)
	seedTools(db)

	// Create admin user
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService)

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "admin123!"
	}
	if name == "" {
		name = "Admin"
	}

	resp, err := authService.Register(context.Background(), auth.RegisterInput{
		Email:    email,
		Password: password,
		Name:     name,
	})
	if err != nil {
		if err == auth.ErrUserExists {
			fmt.Println("admin user already exists, skipping")
			return
		}
		log.Fatalf("failed to create admin user: %v", err)
	}

	if err := db.Model(resp.User).Update("role", "admin").Error; err != nil {
		log.Fatalf("failed to promote admin user: %v", err)
	}

	fmt.Printf("created admin user %s\n", email)
}

func seedPlans(db *gorm.DB) {
	plans := []models.Plan{
		{
			Name:           "Free",
			Description:    "Browse the catalog, no scanning",
			DurationDays:   models.PlanDurationUnlimited,
			MaxScansPerDay: 0,
			Priority:       0,
		},
		{
			Name:              "Starter",
			Description:       "5 scans per day",
			PriceCents:        900,
			DurationDays:      30,
			MaxScansPerDay:    5,
			CanGenerateReport: false,
			Priority:          1,
		},
		{
			Name:              "Pro",
			Description:       "50 scans per day, report generation",
			PriceCents:        4900,
			DurationDays:      30,
			MaxScansPerDay:    50,
			CanGenerateReport: true,
			Priority:          2,
		},
		{
			Name:              "Lifetime",
			Description:       "Never expires",
			PriceCents:        99900,
			DurationDays:      models.PlanDurationUnlimited,
			MaxScansPerDay:    100,
			CanGenerateReport: true,
			Priority:          3,
		},
	}

	for i := range plans {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&plans[i]).Error
		if err != nil {
			log.Fatalf("failed to seed plan %s: %v", plans[i].Name, err)
		}
	}
	fmt.Printf("seeded %d plans\n", len(plans))
}

func seedTools(db *gorm.DB) {
	tools := []models.Tool{
		{Name: "nmap", Category: "network", Description: "Port scanner"},
		{Name: "subfinder", Category: "discovery", Description: "Subdomain discovery"},
		{Name: "httpx", Category: "http", Description: "HTTP probing"},
		{Name: "nuclei", Category: "vulnerability", Description: "Template-based vulnerability scanner"},
		{Name: "nikto", Category: "http", Description: "Web server scanner"},
		{Name: "whois", Category: "osint", Description: "Domain registration lookup"},
		{Name: "dig", Category: "dns", Description: "DNS lookup"},
	}

	for i := range tools {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tools[i]).Error
		if err != nil {
			log.Fatalf("failed to seed tool %s: %v", tools[i].Name, err)
		}
	}
	fmt.Printf("seeded %d tools\n", len(tools))
}
