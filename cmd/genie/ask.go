package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/genie/internal/ui/controller"
	"github.com/zhouzirui/genie/internal/ui/store"
)

func newAskCmd(a *app) *cobra.Command {
	var (
		backend string
		chatID  string
	)

	cmd := &cobra.Command{
		Use:   "ask [prompt...]",
		Short: "Send one prompt to the chat backend and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := a.cfg.Web
			if backend != "" {
				cfg.BackendURL = backend
			}
			client, err := newBackendClient(cfg)
			if err != nil {
				return err
			}

			if chatID == "" {
				chatID = uuid.NewString()
			}

			ctrl := controller.New(client)
			go func() {
				<-ctx.Done()
				ctrl.Close()
			}()

			ctrl.Adopt(chatID)
			if err := ctrl.SendMessage(strings.Join(args, " ")); err != nil {
				return err
			}
			ctrl.Wait()
			if ctx.Err() != nil {
				return ctx.Err()
			}

			messages := ctrl.State().Messages
			if len(messages) == 0 || messages[len(messages)-1].Sender != store.SenderAssistant {
				return fmt.Errorf("no reply received for chat %s", chatID)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "chat: %s\n", chatID)
			fmt.Fprintln(cmd.OutOrStdout(), messages[len(messages)-1].Content)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "chat endpoint URL (overrides CHAT_BACKEND_URL)")
	cmd.Flags().StringVar(&chatID, "chat", "", "continue an existing chat id")
	return cmd
}
