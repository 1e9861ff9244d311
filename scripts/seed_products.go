package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"om-traders/internal/model"
	"om-traders/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Seeds the local store with a small sample catalogue for development.
// Usage: go run scripts/seed_products.go [path-to-db]
func main() {
	path := "om-traders.db"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	store, err := storage.OpenLocal(path, logger)
	if err != nil {
		log.Fatalf("failed to open local store: %v", err)
	}
	defer store.Close()

	samples := []model.Product{
		{Name: "PVC Pipe 2in", Description: "2 inch PVC pipe, 3m length", Price: decimal.NewFromFloat(150.00), Category: "PVC", Stock: 40, Dimensions: "2in x 3m"},
		{Name: "PVC Pipe 4in", Description: "4 inch PVC pipe, 3m length", Price: decimal.NewFromFloat(320.00), Category: "PVC", Stock: 25, Dimensions: "4in x 3m"},
		{Name: "Elbow Joint 2in", Description: "90 degree elbow joint", Price: decimal.NewFromFloat(35.50), Category: "PVC", Stock: 120, Dimensions: "2in"},
		{Name: "Hammer 500g", Description: "Claw hammer with wooden handle", Price: decimal.NewFromFloat(280.00), Category: "Hardware", Stock: 15},
		{Name: "Screwdriver Set", Description: "6 piece screwdriver set", Price: decimal.NewFromFloat(450.00), Category: "Hardware", Stock: 8},
		{Name: "LED Bulb 9W", Description: "Cool white LED bulb", Price: decimal.NewFromFloat(99.00), Category: "Electronics", Stock: 60},
		{Name: "Extension Board", Description: "4 socket extension board, 2m cord", Price: decimal.NewFromFloat(350.00), Category: "Electronics", Stock: 12},
	}

	ctx := context.Background()
	for i := range samples {
		if err := store.SaveProduct(ctx, &samples[i]); err != nil {
			log.Fatalf("failed to seed product %q: %v", samples[i].Name, err)
		}
		fmt.Printf("seeded %s (%s)\n", samples[i].Name, samples[i].ID)
	}

	fmt.Printf("seeded %d products into %s\n", len(samples), path)
}
