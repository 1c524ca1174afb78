package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/commcoach/backend/internal/analysis/engagement"
	"github.com/zhouzirui/commcoach/backend/internal/config"
	"github.com/zhouzirui/commcoach/backend/internal/model/coachmode"
	sessionmodel "github.com/zhouzirui/commcoach/backend/internal/model/session"
)

// Service runs coaching prompts through the configured chat model.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the AI service and compiles its prompt chain.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("context", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile coaching chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// GenerateFeedback produces one coaching reply for the given turn. A single
// attempt is made; any failure surfaces to the caller, which owns the
// fallback policy.
func (s *Service) GenerateFeedback(ctx context.Context, profile coachmode.Profile, history []sessionmodel.Turn, message string, snapshot *engagement.Score) (string, error) {
	input := map[string]any{
		"system":  profile.SystemPrompt,
		"context": snapshotContext(snapshot),
		"query":   buildQuery(history, message),
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run coaching chain: %w", err)
	}

	feedback := strings.TrimSpace(response.Content)
	if feedback == "" {
		return "", fmt.Errorf("model returned an empty reply")
	}

	log.Printf("[ai] generated feedback mode=%s length=%d", profile.Mode, len(feedback))
	return feedback, nil
}
