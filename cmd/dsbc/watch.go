package main

import (
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"dsbc/internal/config"
	"dsbc/internal/deepseek"
	"dsbc/internal/history"
	"dsbc/internal/tui"
)

func NewWatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live-updating balance view, refreshed on an interval",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// The token is re-resolved on every fetch so edits to the
			// credentials file take effect without a restart.
			newClient := func() (*deepseek.Client, error) {
				cred, err := config.ResolveToken(opts.token)
				if err != nil {
					return nil, err
				}
				return deepseek.New(cred.Token, deepseek.WithBaseURL(cfg.BaseURL)), nil
			}

			// Fail fast on missing credentials before entering the alt screen.
			if _, err := newClient(); err != nil {
				return err
			}

			var store *history.Store
			if cfg.History {
				store, err = history.OpenStore(config.HistoryPath())
				if err != nil {
					log.Printf("history disabled for this run: %v", err)
				} else {
					defer store.Close()
				}
			}

			model := tui.NewModel(newClient, store,
				time.Duration(cfg.RefreshIntervalSeconds)*time.Second,
				config.CredentialsPath())

			if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("running watch view: %w", err)
			}
			return nil
		},
	}
}
