package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexidrill/internal/config"
	"lexidrill/internal/database"
	"lexidrill/internal/repository"
	"lexidrill/internal/service"
)

func main() {
	limit := flag.Int("limit", 10, "maximum jobs to process per pass")
	watch := flag.Duration("watch", 0, "poll interval; 0 runs a single pass and exits")
	flag.Parse()

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	vocabRepo := repository.NewVocabRepository(db)
	importRepo := repository.NewImportRepository(db)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create email service: %v", err)
	}

	importService := service.NewImportService(importRepo, vocabRepo, userRepo, emailService)
	ctx := context.Background()

	if *watch <= 0 {
		processed, err := importService.ProcessBatch(ctx, *limit)
		if err != nil {
			log.Fatalf("Import processing failed after %d jobs: %v", processed, err)
		}
		log.Printf("Processed %d import jobs", processed)
		return
	}

	log.Printf("Import worker watching queue every %s", *watch)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*watch)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			processed, err := importService.ProcessBatch(ctx, *limit)
			if err != nil {
				log.Printf("Import processing failed after %d jobs: %v", processed, err)
				continue
			}
			if processed > 0 {
				log.Printf("Processed %d import jobs", processed)
			}
		case <-quit:
			log.Println("Import worker shutting down...")
			return
		}
	}
}
