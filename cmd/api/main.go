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

	"github.com/zhouzirui/commcoach/backend/internal/config"
	"github.com/zhouzirui/commcoach/backend/internal/handler"
	"github.com/zhouzirui/commcoach/backend/internal/model/coachmode"
	"github.com/zhouzirui/commcoach/backend/internal/service/ai"
	"github.com/zhouzirui/commcoach/backend/internal/service/feedback"
	sessionservice "github.com/zhouzirui/commcoach/backend/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	modes, err := coachmode.NewStore(coachmode.Seed())
	if err != nil {
		log.Fatalf("failed to load coaching profiles: %v", err)
	}

	sessions := sessionservice.NewService()

	// The AI service is optional at startup; while it is missing the
	// feedback endpoint reports the misconfiguration instead of serving
	// replies.
	var generator feedback.Generator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("feedback endpoint will report the misconfiguration - check the Ark environment variables")
		} else {
			generator = aiService
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, feedback endpoint disabled")
	}

	engine := feedback.NewService(sessions, modes, generator, cfg.Engagement.HistoryLimit)

	router := handler.NewRouter(cfg.Server, cfg.Engagement, sessions, engine)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Communication coach backend listening on %s", serverCfg.Addr)
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
