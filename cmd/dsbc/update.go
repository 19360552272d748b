package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dsbc/internal/appupdate"
	"dsbc/internal/version"
)

func NewUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check whether a newer release is available",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := appupdate.Check(cmd.Context(), appupdate.CheckOptions{
				CurrentVersion: version.Version,
			})
			if err != nil {
				return err
			}

			if result.CurrentVersion == "" {
				fmt.Println("Running a development build; update checks only apply to releases.")
				return nil
			}

			if result.UpdateAvailable {
				fmt.Printf("Update available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
				fmt.Println(result.UpgradeHint)
			} else {
				fmt.Printf("Up to date (%s).\n", result.CurrentVersion)
			}
			return nil
		},
	}
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("dsbc " + version.String())
		},
	}
}
