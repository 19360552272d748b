package main

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"dsbc/internal/config"
	"dsbc/internal/render"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func NewUsageCommand(opts *rootOptions) *cobra.Command {
	var startDate, endDate string

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show usage statistics for a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, d := range []string{startDate, endDate} {
				if d != "" && !dateRe.MatchString(d) {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", d)
				}
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client, err := newClient(cfg, opts)
			if err != nil {
				return err
			}

			usage, err := client.GetUsage(cmd.Context(), startDate, endDate)
			if err != nil {
				return err
			}

			return printResult(opts.jsonOut,
				func() (string, error) { return render.UsageJSON(usage) },
				func() string { return render.Usage(usage) })
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD)")

	return cmd
}
