package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/commcoach/backend/internal/analysis/engagement"
	"github.com/zhouzirui/commcoach/backend/internal/config"
	"github.com/zhouzirui/commcoach/backend/internal/model/coachmode"
	"github.com/zhouzirui/commcoach/backend/internal/service/ai"
	"github.com/zhouzirui/commcoach/backend/internal/service/feedback"
	sessionservice "github.com/zhouzirui/commcoach/backend/internal/service/session"
)

// coachprobe exercises the feedback pipeline from the command line without
// the HTTP layer, against the real configured model.
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] failed to load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	message := flag.String("message", "", "user message to submit")
	mode := flag.String("mode", "introduction", "coaching mode: introduction, seminar or interview")
	withScore := flag.Bool("score", false, "attach a synthetic engagement snapshot")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Parse()

	if *message == "" {
		flag.Usage()
		log.Fatal("provide a message with -message")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	modes, err := coachmode.NewStore(coachmode.Seed())
	if err != nil {
		log.Fatalf("failed to load coaching profiles: %v", err)
	}

	var generator feedback.Generator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Fatalf("failed to initialize AI service: %v", err)
		}
		generator = aiService
	} else {
		log.Println("[WARN] Ark credentials not configured, expect the fallback reply")
	}

	engine := feedback.NewService(sessionservice.NewService(), modes, generator, cfg.Engagement.HistoryLimit)

	req := feedback.Request{Message: *message, Mode: *mode}
	if *withScore {
		req.Snapshot = &engagement.Score{EyeContact: 72, Positivity: 55, HeadStability: 88, Confidence: 71}
	}

	result, err := engine.Submit(ctx, req)
	if err != nil {
		log.Fatalf("submit failed: %v", err)
	}

	fmt.Printf("mode:      %s\n", result.Mode)
	fmt.Printf("fallback:  %v\n", result.Fallback)
	fmt.Printf("timestamp: %s\n", result.Timestamp.Format(time.RFC3339))
	fmt.Printf("feedback:  %s\n", result.Feedback)
}
