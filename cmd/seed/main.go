package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"fitbook/config"
	"fitbook/database"
	trainerRepo "fitbook/database/repository/trainer"
	"fitbook/utils"
)

// seed replaces the trainer directory with the sample trainers and, with -token,
// prints a bearer token for local testing of the booking endpoints.
func main() {
	tokenFor := flag.String("token", "", "print a one-day bearer token for this user id")
	flag.Parse()

	config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.InitDB(ctx); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer database.Disconnect(context.Background())

	repo := trainerRepo.NewMongoTrainerRepo(database.Database())
	ids, err := repo.ReplaceAll(ctx, trainerRepo.SampleTrainers(time.Now().UTC()))
	if err != nil {
		log.Fatalf("Failed to seed trainers: %v", err)
	}
	for _, id := range ids {
		fmt.Println("trainer", id)
	}
	log.Printf("Seeded %d trainers", len(ids))

	if *tokenFor != "" {
		utils.InitJWT(config.AppConfig.JWTSecret)
		token, err := utils.GenerateToken(*tokenFor, 24*time.Hour)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println("token", token)
	}
}
