package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"dsbc/internal/config"
	"dsbc/internal/history"
)

func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded balance snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := history.OpenStore(config.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			snaps, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(snaps) == 0 {
				fmt.Println("No balance history recorded yet.")
				return nil
			}

			fmt.Println(formatHistory(snaps))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum snapshots to show")

	return cmd
}

func formatHistory(snaps []history.Snapshot) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-20s  %12s  %12s  %12s  %s\n",
		"FETCHED", "TOTAL", "AVAILABLE", "USED", "CURRENCY"))
	for _, s := range snaps {
		sb.WriteString(fmt.Sprintf("%-20s  %12.2f  %12.2f  %12.2f  %s\n",
			s.FetchedAt.Local().Format("2006-01-02 15:04:05"),
			s.Total, s.Available, s.Used, s.Currency))
	}

	if len(snaps) >= 2 {
		sb.WriteString("\nAvailable trend: ")
		sb.WriteString(history.Sparkline(
			history.AvailableSeries(snaps), 40, lipgloss.Color("#94E2D5")))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
