package main

import (
	"context"
	"log"
	"time"

	"ai-autoparts-be/internal/bootstrap"
	"ai-autoparts-be/internal/config"
	"ai-autoparts-be/internal/constant"
	"ai-autoparts-be/internal/server"
	"ai-autoparts-be/internal/tracer"
	"ai-autoparts-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	log.Println("Background: Starting Consumer Service...")
	if err := container.ConsumerService.Consume(context.Background()); err != nil {
		log.Panicf("Unable to start consumer: %v", err)
	}

	// Reverse-image uploads are only needed while the external search engine
	// fetches them, so sweep the upload dir periodically.
	go func() {
		retention := constant.UploadRetentionHours * time.Hour
		ticker := time.NewTicker(retention)
		defer ticker.Stop()
		for range ticker.C {
			removed, err := container.UploadStore.Cleanup(retention)
			if err != nil {
				log.Printf("Background: Upload cleanup error: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("Background: Removed %d expired uploads", removed)
			}
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
