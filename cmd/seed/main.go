// Command main runs the database seeder for the P2P Sandbox.
package main

import (
	"flag"
	"log"

	"p2psandbox/internal/config"
	"p2psandbox/internal/database"
	"p2psandbox/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 40, "Number of users to create")
	numPosts := flag.Int("posts", 150, "Number of forum posts to create")
	numUseCases := flag.Int("use-cases", 60, "Number of use cases to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (fast dev seeding)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, %d posts, %d use cases, clean=%v\n",
		*numUsers, *numPosts, *numUseCases, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		NumUseCases: *numUseCases,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *skipBcrypt,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All test users have the password: password123")
}
