// Command main runs the database seeder for ForumHub.
package main

import (
	"flag"
	"log"

	"forumhub/internal/config"
	"forumhub/internal/database"
	"forumhub/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numForums := flag.Int("forums", 50, "Number of forums to create")
	numComments := flag.Int("comments", 300, "Number of comments to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Build data without writing it")
	fast := flag.Bool("fast", false, "Hash the seed password at minimum bcrypt cost")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d forums, %d comments, clean=%v\n", *numUsers, *numForums, *numComments, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	_, err = seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumForums:   *numForums,
		NumComments: *numComments,
		ShouldClean: *shouldClean,
		Factory:     seed.SeedOptions{DryRun: *dryRun, FastHash: *fast},
	})
	if err != nil {
		_ = database.Close(db)
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("📧 All test users have the password: %s", seed.DefaultPassword)
}
