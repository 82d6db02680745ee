package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"storereport/adapters/excel"
	"storereport/adapters/fonts"
	"storereport/adapters/render"
	"storereport/app"
	"storereport/domain/eval"
	"storereport/domain/layout"
	"storereport/domain/target"
	"storereport/internal/config"
	"storereport/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Fetch the CJK report font in the background so the first render does
	// not pay the download cost.
	fontProvider := fonts.NewProvider(appConfig.Font.URL, appConfig.Font.CacheDir)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		fontProvider.Warmup(ctx)
	}()

	// Assemble the report pipeline
	resolver := target.NewResolver(target.DefaultGlossary())
	evaluator := eval.NewEvaluator(resolver)
	engine := layout.NewEngine(resolver)
	renderer := render.NewTableRenderer(fontProvider, appConfig.Render.PixelsPerUnit)
	service := app.NewReportService(evaluator, engine, renderer)

	// Initialize web server
	server := ui.NewServer(appConfig, excel.NewReader(), service)

	log.Printf("Starting report server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
