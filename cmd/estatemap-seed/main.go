package main

import (
	"context"
	"estatemap/internal"
	"log"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := internal.RunSeed(ctx)
	if err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	if result.AlreadySeeded {
		log.Printf("Data already seeded (%d listings), nothing to do", result.ExistingCount)
		return
	}
	log.Printf("Seeded %d properties", result.InsertedCount)
}
