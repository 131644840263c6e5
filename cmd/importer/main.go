package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"ordinance-map/internal/config"
	"ordinance-map/internal/document"
	"ordinance-map/internal/index"
	"ordinance-map/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	file := flag.String("file", "", "Path to the coordinates JSON file to import")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}

	rows, loss, err := document.Flatten(data)
	if err != nil {
		fmt.Printf("Error parsing document: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d street records\n", len(rows))
	if loss.Any() {
		fmt.Printf("Warning: not stored (no streets): %d ordinances, %d zones; malformed parts skipped: %d\n",
			loss.EmptyOrdinances, loss.EmptyZones, loss.Skipped)
	}

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Connect to DB
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.NewRepository(pool)

	// Ensure table exists
	if err := repo.EnsureSchema(ctx); err != nil {
		fmt.Printf("Error creating table: %v\n", err)
		os.Exit(1)
	}

	// Insert records
	if _, err := repo.ReplaceAll(ctx, rows); err != nil {
		fmt.Printf("Error inserting records: %v\n", err)
		os.Exit(1)
	}

	// Verify data
	if err := verifyImport(ctx, repo, len(rows)); err != nil {
		fmt.Printf("Error verifying import: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d street records\n", len(rows))
}

func verifyImport(ctx context.Context, repo *repository.Repository, expectedCount int) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}

	if count != expectedCount {
		return fmt.Errorf("record count mismatch: expected %d, got %d", expectedCount, count)
	}

	// Read back through the same path the viewer uses
	doc, err := repo.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to read back document: %w", err)
	}
	_, stats := index.Build(doc)

	fmt.Printf("Ordinances: %d, streets with coordinates: %d/%d, annotations: %d\n",
		stats.Ordinances, stats.StreetsWithCoordinates, stats.TotalStreets, stats.Annotations)
	return nil
}
