package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/aeroops/divert/internal/config"
	"github.com/aeroops/divert/internal/diversion"
	"github.com/aeroops/divert/internal/feeds"
	"github.com/aeroops/divert/internal/mockfeeds"
	"github.com/aeroops/divert/internal/server"
	"github.com/aeroops/divert/internal/store"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to configuration file")
	mockPort := flag.String("mock-feeds", "", "also serve mock upstream feeds on this port (development)")
	flag.Parse()

	log.Println("Starting diversion decision service - loading configuration")

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Error reading configuration file: %v", err)
	}

	if *mockPort != "" {
		mockSrv := mockfeeds.Start(*mockPort)
		defer mockSrv.Close()
	}

	// optional decision audit store
	var st store.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Error opening database: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(30 * time.Minute)

		pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			log.Fatalf("Error pinging database: %v", err)
		}
		cancel()

		pg := store.NewPostgres(db)
		if err := pg.Migrate(context.Background()); err != nil {
			log.Fatalf("Error running migrations: %v", err)
		}
		st = pg
		log.Println("Decision audit store enabled")
	} else {
		log.Println("DATABASE_URL not set - running without decision audit store")
	}

	client, err := feeds.NewClient(feeds.Options{
		AirportDirectoryURL: cfg.Feeds.AirportDirectoryURL,
		WeatherURL:          cfg.Feeds.WeatherURL,
		AlertURL:            cfg.Feeds.AlertURL,
		Timeout:             time.Duration(cfg.Feeds.TimeoutSec) * time.Second,
		CacheTTL:            time.Duration(cfg.Feeds.CacheTTLSec) * time.Second,
		CacheSize:           cfg.Feeds.CacheSize,
	})
	if err != nil {
		log.Fatalf("Error building feed client: %v", err)
	}

	assembler := &feeds.Assembler{
		Directory: client,
		Weather:   client,
		Alerts:    client,
		RadiusNm:  cfg.Feeds.SearchRadiusNm,
	}

	engine := diversion.New(cfg.Engine)
	hub := server.NewHub()

	// background alert refresh for the operator stream; the watch region is
	// global until per-console regions exist
	watchRegion := feeds.Region{LatMin: -90, LatMax: 90, LonMin: -180, LonMax: 180}
	watcher := feeds.NewWatcher(client, watchRegion,
		time.Duration(cfg.Feeds.RefreshSec)*time.Second, hub.Broadcast)

	ctx, cancelWatch := context.WithCancel(context.Background())
	go watcher.Start(ctx)

	srv := server.New(cfg, engine, assembler, st, hub)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Diversion decision service listening on :%s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down")

	watcher.Stop()
	cancelWatch()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
