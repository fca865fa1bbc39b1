package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/genie/internal/config"
	"github.com/zhouzirui/genie/internal/handler"
	chatHandler "github.com/zhouzirui/genie/internal/handler/chat"
	"github.com/zhouzirui/genie/internal/model/assistant"
	"github.com/zhouzirui/genie/internal/service/ai"
	"github.com/zhouzirui/genie/internal/service/chat"
)

func newAPICmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Run the chat backend (POST /api/chat)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			listen := a.cfg.Server.Addr
			if addr != "" {
				parsed, err := config.ParseAddr(addr, "8080")
				if err != nil {
					return err
				}
				listen = parsed
			}

			profiles := assistant.NewMemoryStore(assistant.Seed())
			chatService := chat.NewService()
			router := handler.NewAPIRouter(profiles, chatService, newResponder(ctx, profiles, a.cfg.AI))
			return startServer(ctx, "api", listen, router)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen port or host:port (overrides PORT)")
	return cmd
}

// newResponder returns nil when the model is not configured so the chat
// endpoint answers 503 instead of failing at startup.
func newResponder(ctx context.Context, profiles assistant.Store, cfg config.AIConfig) chatHandler.Responder {
	if !cfg.Enabled() {
		log.Warn().Str("component", "api").Msg("Ark 凭证未配置，聊天接口将返回 503")
		return nil
	}

	aiService, err := ai.NewService(ctx, profiles, cfg)
	if err != nil {
		log.Warn().Err(err).Str("component", "api").Msg("failed to initialize AI service, 请检查 Ark 模型相关环境变量")
		return nil
	}

	log.Info().Str("component", "api").Str("assistant", aiService.Profile().ID).Msg("AI service initialized")
	return aiService
}
