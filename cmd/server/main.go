package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MaleyDenis/infoBro/api"
	"github.com/MaleyDenis/infoBro/config"
	"github.com/MaleyDenis/infoBro/connector"
	"github.com/MaleyDenis/infoBro/events"
	"github.com/MaleyDenis/infoBro/runner"
	"github.com/MaleyDenis/infoBro/store"
	"github.com/MaleyDenis/infoBro/worker"
)

func main() {
	log.Println("Starting infoBro news service...")

	cfg := config.Load()

	sources, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		log.Fatalf("Failed to load sources config: %v", err)
	}

	itemStore := buildStore(cfg)

	registry := connector.NewRegistry()
	if err := connector.RegisterSources(registry, sources); err != nil {
		log.Fatalf("Failed to register connectors: %v", err)
	}

	var publisher *events.Publisher
	if cfg.NATSUrl != "" {
		publisher, err = events.NewPublisher(cfg.NATSUrl)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer publisher.Close()
		log.Println("Connected to NATS")
	} else {
		log.Println("NATS_URL not set, run events disabled")
	}

	coordinator := runner.New(registry, itemStore, publisher, cfg.FetchTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.FetchInterval > 0 {
		scheduler := worker.NewScheduler(coordinator, cfg.FetchInterval)
		go scheduler.Start(ctx)
	}

	handler := api.NewHandler(itemStore, coordinator, cfg.PageSize, cfg.PageSizeMax)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}

// buildStore picks the Mongo store when MONGO_URI is set, otherwise the
// in-memory store for local runs.
func buildStore(cfg *config.Config) store.ItemStore {
	if cfg.MongoURI == "" {
		log.Println("MONGO_URI not set, using in-memory store")
		return store.NewMemory()
	}

	mongoStore, err := store.NewMongo(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")
	return mongoStore
}
