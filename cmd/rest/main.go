package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"digestly-be/internal/bootstrap"
	"digestly-be/internal/config"
	"digestly-be/internal/server"
	"digestly-be/internal/tracer"
	"digestly-be/pkg/database"
	pktNats "digestly-be/pkg/nats"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Tracing)
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Tracer shutdown error: %v", err)
		}
	}()

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start Background Services
	go container.WebSocketHub.Run(ctx)

	log.Println("Background: Starting Consumer Service...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	if container.EventSubscriber != nil {
		if err := container.ActivityService.Start(container.EventSubscriber); err != nil {
			log.Printf("Background Activity Error (subject %s>): %v", pktNats.SubjectPrefix, err)
		}
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
