package main

import (
	"context"
	"log"

	"github.com/locvowork/employee_crud/internal/bootstrap"
	"github.com/locvowork/employee_crud/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "server exited with error: %v", err)
		log.Fatal(err)
	}
}
