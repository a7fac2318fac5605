// Command main seeds demo users and projects into the configured database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"shelfware/internal/auth"
	"shelfware/internal/config"
	"shelfware/internal/database"
	"shelfware/internal/middleware"
	"shelfware/internal/models"
	"shelfware/internal/seed"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run() error {
	seedUsers := flag.Bool("users", true, "Create the demo users")
	seedProjects := flag.Bool("projects", true, "Create the sample unowned projects")
	fake := flag.Int("fake", 0, "Number of fake projects to generate for -owner")
	owner := flag.String("owner", "demo@example.com", "Email of the user that owns fake projects")
	dryRun := flag.Bool("dry-run", false, "Build fake projects without writing them")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	middleware.InitLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	if *seedUsers {
		n, err := seed.Users(db, auth.NewBcryptHasher(auth.DefaultBcryptCost))
		if err != nil {
			return fmt.Errorf("user seeding failed: %w", err)
		}
		log.Printf("👤 %d users created", n)
	}

	if *seedProjects {
		n, err := seed.Projects(db)
		if err != nil {
			return fmt.Errorf("project seeding failed: %w", err)
		}
		log.Printf("📦 %d sample projects created", n)
	}

	if *fake > 0 {
		var user models.User
		if err := db.Where("email = ?", *owner).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("owner %s does not exist; run with -users first", *owner)
			}
			return err
		}

		projects, err := seed.NewFactory(db, seed.FactoryOptions{DryRun: *dryRun}).CreateProjects(user.ID, *fake)
		if err != nil {
			return fmt.Errorf("fake project seeding failed: %w", err)
		}
		log.Printf("🎲 %d fake projects generated for %s (dry-run=%t)", len(projects), *owner, *dryRun)
	}

	log.Println("✨ All done!")
	return nil
}
