package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "history <chatID>",
		Short: "Print the transcript the backend stores for a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Web
			if backend != "" {
				cfg.BackendURL = backend
			}
			client, err := newBackendClient(cfg)
			if err != nil {
				return err
			}

			messages, err := client.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(messages) == 0 {
				fmt.Fprintln(out, "no messages")
				return nil
			}
			for _, m := range messages {
				fmt.Fprintf(out, "[%s] %s: %s\n", m.CreatedAt.Local().Format(time.DateTime), m.Sender, m.Content)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "chat endpoint URL (overrides CHAT_BACKEND_URL)")
	return cmd
}
