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

	"github.com/joho/godotenv"

	"github.com/va9226-stack/SENTIENT-NEXUS/internal/config"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/handler"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/entity"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/service/ai"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/service/interaction"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/service/learning"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/service/nexus"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/store/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	entityStore := entity.NewMemoryStore(entity.Seed())

	// Durable storage is optional: without NEXUS_DB_PATH sessions live for
	// the process only and learnings come from the canned mock.
	var (
		snapshots nexus.SnapshotStore
		recorder  learning.Recorder = learning.NewMockRecorder()
	)
	if cfg.Storage.DBPath != "" {
		store, err := sqlite.Open(cfg.Storage.DBPath)
		if err != nil {
			log.Fatalf("failed to open nexus database: %v", err)
		}
		defer store.Close()
		snapshots = store
		recorder = learning.NewSQLiteRecorder(store)
		log.Printf("nexus database open at %s", cfg.Storage.DBPath)
	} else {
		log.Println("NEXUS_DB_PATH not set, using in-memory sessions and mock learning recorder")
	}

	sessions := nexus.NewService(snapshots)
	sessions.Restore(ctx)

	var aiSvc *ai.Service
	if cfg.AI.Enabled() {
		aiSvc, err = ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI functionality - check the ARK_* environment variables")
		} else {
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("ark credentials not configured, skipping AI initialization")
	}

	var generator interaction.Generator
	if aiSvc != nil {
		generator = aiSvc
	} else {
		generator = offlineGenerator{}
	}
	interactions := interaction.NewService(sessions, generator, recorder, nil)

	router := handler.NewRouter(entityStore, sessions, interactions, aiSvc, recorder)

	startServer(ctx, cfg.Server, router)
}

// offlineGenerator keeps the API usable without model credentials.
type offlineGenerator struct{}

func (offlineGenerator) GenerateResponse(_ context.Context, ent entity.Entity, _, _ string) (string, error) {
	return "", errors.New("no chat model configured for " + ent.Name)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Sentient Nexus backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
