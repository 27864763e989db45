package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/locvowork/employee_crud/internal/bootstrap"
	"github.com/locvowork/employee_crud/internal/database"
	"github.com/locvowork/employee_crud/internal/logger"
)

func main() {
	action := flag.String("action", "seed", "Action to perform: seed, clear")
	preset := flag.String("preset", "medium", "Data preset: small, medium, large")
	count := flag.Int("count", 0, "Number of employees (overrides preset)")
	workers := flag.Int("workers", 4, "Number of concurrent creates")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt for clear")

	flag.Parse()

	ctx := context.Background()

	fmt.Println("Employee Data Seeder")
	fmt.Println(strings.Repeat("=", 50))

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer app.DB.Close()

	seeder := database.NewDataSeeder(app.DB, app.Service)

	switch *action {
	case "seed":
		performSeed(ctx, seeder, *preset, *count, *workers)
	case "clear":
		performClear(ctx, seeder, *yes)
	default:
		fmt.Printf("Unknown action: %s\n", *action)
		flag.PrintDefaults()
		return
	}

	fmt.Println("Done!")
}

func performSeed(ctx context.Context, seeder *database.DataSeeder, preset string, count, workers int) {
	n := count
	if n <= 0 {
		n = database.GetPresetCount(database.SeedPreset(preset))
		fmt.Printf("Using preset: %s (%d employees)\n", preset, n)
	}

	res, err := seeder.SeedEmployees(ctx, n, workers)
	if err != nil {
		logger.ErrorLog(ctx, "seeding failed: %v", err)
		log.Fatalf("seeding failed: %v", err)
	}

	fmt.Printf("Created %d employees, skipped %d duplicate emails in %s\n", res.Created, res.Conflicts, res.Elapsed)
}

func performClear(ctx context.Context, seeder *database.DataSeeder, yes bool) {
	if !yes {
		fmt.Println("This will delete all employees!")
		fmt.Print("Continue? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		if response != "yes" {
			fmt.Println("Cancelled.")
			return
		}
	}

	n, err := seeder.ClearData(ctx)
	if err != nil {
		log.Fatalf("clear failed: %v", err)
	}
	fmt.Printf("Deleted %d employees\n", n)
}
