package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/genie/internal/config"
	"github.com/zhouzirui/genie/internal/handler"
	"github.com/zhouzirui/genie/internal/handler/web"
	"github.com/zhouzirui/genie/internal/integrations/chatapi"
	"github.com/zhouzirui/genie/internal/model/assistant"
	"github.com/zhouzirui/genie/internal/ui/page"
)

func newWebCmd(a *app) *cobra.Command {
	var (
		addr    string
		backend string
	)

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the chat page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := a.cfg.Web
			if addr != "" {
				parsed, err := config.ParseAddr(addr, "5173")
				if err != nil {
					return err
				}
				cfg.Addr = parsed
			}
			if backend != "" {
				cfg.BackendURL = backend
			}

			client, err := newBackendClient(cfg)
			if err != nil {
				return err
			}

			profile, ok := assistant.Resolve(assistant.NewMemoryStore(assistant.Seed()), cfg.AssistantID)
			if !ok {
				log.Warn().Str("component", "web").Str("assistant", cfg.AssistantID).Msg("assistant profile not found, using default")
			}

			pages := web.New(profile, client, page.Options{RestoreHistory: cfg.RestoreHistory})
			log.Info().
				Str("component", "web").
				Str("backend", client.URL()).
				Str("status_policy", string(cfg.StatusPolicy)).
				Bool("restore_history", cfg.RestoreHistory).
				Msg("chat page configured")

			return startServer(ctx, "web", cfg.Addr, handler.NewWebRouter(pages))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen port or host:port (overrides WEB_PORT)")
	cmd.Flags().StringVar(&backend, "backend", "", "chat endpoint URL (overrides CHAT_BACKEND_URL)")
	return cmd
}

func newBackendClient(cfg config.WebConfig) (*chatapi.Client, error) {
	return chatapi.NewClient(cfg.BackendURL,
		chatapi.WithTimeout(cfg.BackendTimeout),
		chatapi.WithStrictStatus(cfg.StatusPolicy == config.StatusStrict),
	)
}
