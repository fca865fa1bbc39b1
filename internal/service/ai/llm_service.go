package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/genie/internal/config"
	"github.com/zhouzirui/genie/internal/model/assistant"
	"github.com/zhouzirui/genie/internal/model/chat"
)

// ErrEmptyReply is returned when the model answers with no content.
var ErrEmptyReply = errors.New("model returned no response")

const defaultHistoryLimit = 10

// Service encapsulates AI-powered chat functionality
type Service struct {
	chatModel    model.BaseChatModel
	profile      assistant.Profile
	historyLimit int
	chain        compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates a new AI service backed by the configured Ark model.
func NewService(ctx context.Context, profiles assistant.Store, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	profile, _ := assistant.Resolve(profiles, cfg.AssistantID)
	return NewServiceWithModel(ctx, chatModel, profile, cfg.HistoryLimit)
}

// NewServiceWithModel builds the prompt chain around an existing chat model.
func NewServiceWithModel(ctx context.Context, chatModel model.BaseChatModel, profile assistant.Profile, historyLimit int) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model must not be nil")
	}
	if historyLimit < 0 {
		historyLimit = defaultHistoryLimit
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel:    chatModel,
		profile:      profile,
		historyLimit: historyLimit,
		chain:        runnable,
	}, nil
}

// Profile returns the assistant profile the service answers as.
func (s *Service) Profile() assistant.Profile {
	return s.profile
}

// GenerateReply answers userMessage given the prior turns of the conversation.
func (s *Service) GenerateReply(ctx context.Context, chatID string, history []chat.Message, userMessage string) (string, error) {
	response, err := s.chain.Invoke(ctx, s.buildChainInput(history, userMessage))
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", ErrEmptyReply
	}

	log.Debug().
		Str("component", "ai").
		Str("chat_id", chatID).
		Int("history", len(history)).
		Int("length", len(response.Content)).
		Msg("generated reply")
	return response.Content, nil
}

func (s *Service) buildChainInput(history []chat.Message, userMessage string) map[string]any {
	return map[string]any{
		"system":  BuildSystemPrompt(&s.profile),
		"history": buildHistoryMessages(history, s.historyLimit),
		"query":   userMessage,
	}
}

func buildHistoryMessages(messages []chat.Message, limit int) []*schema.Message {
	if len(messages) == 0 || limit == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > limit {
		startIdx = len(messages) - limit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Sender {
		case chat.SenderUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.SenderAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return history
}
