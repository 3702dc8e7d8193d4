package main

import (
	"context"
	"fmt"
	"log"
	"time"

	mongoMigration "styledecor/internal/migrations/mongo"
	"styledecor/pkg/client"
	"styledecor/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.Log.Info("Starting Mongo migration job")

	mongoClient := client.NewMongoClient(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
	defer mongoClient.Disconnect(cfg.ShutdownTimeout)

	if err := mongoMigration.RunMigration(ctx, mongoClient.Client, cfg.MongoDatabaseName); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Println("Migration completed successfully.")
}
