package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"dsbc/internal/config"
	"dsbc/internal/deepseek"
	"dsbc/internal/history"
	"dsbc/internal/render"
	"dsbc/internal/version"
)

// errUnhealthy signals a failed --health probe; the status line was already
// printed, only the exit code needs to reflect it.
var errUnhealthy = errors.New("api unhealthy")

type rootOptions struct {
	token   string
	models  bool
	jsonOut bool
	health  bool
	verbose bool
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "dsbc",
		Short:         "Check DeepSeek API account balance and available models",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runRoot(cmd.Context(), cfg, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.token, "token", "t", "",
		"DeepSeek API token (default: from DEEPSEEK_API_TOKEN env var)")
	pf.BoolVarP(&opts.jsonOut, "json", "j", false, "Output in JSON format")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false,
		"Show verbose output including API health check")

	root.Flags().BoolVarP(&opts.models, "models", "m", false,
		"Show available models and pricing")
	root.Flags().BoolVarP(&opts.health, "health", "H", false,
		"Check API health only")

	root.AddCommand(
		NewUsageCommand(opts),
		NewWatchCommand(opts),
		NewHistoryCommand(),
		NewUpdateCommand(),
		NewVersionCommand(),
	)

	return root
}

func runRoot(ctx context.Context, cfg config.Config, opts *rootOptions) error {
	client, err := newClient(cfg, opts)
	if err != nil {
		return err
	}

	if opts.health {
		return runHealth(ctx, client, opts.jsonOut)
	}

	if opts.verbose {
		printVerboseDiagnostics(ctx, client, opts)
	}

	if opts.models {
		models, err := client.GetModels(ctx)
		if err != nil {
			return err
		}
		if err := printResult(opts.jsonOut,
			func() (string, error) { return render.ModelsJSON(models) },
			func() string { return render.Models(models) }); err != nil {
			return err
		}
	}

	// Balance is the default report; with --models it only shows up again
	// under --verbose, matching the classic behavior.
	if !opts.models || opts.verbose {
		balance, err := client.GetBalance(ctx)
		if err != nil {
			return err
		}
		recordBalance(ctx, cfg, balance)

		if err := printResult(opts.jsonOut,
			func() (string, error) { return render.BalanceJSON(balance) },
			func() string { return render.Balance(balance) }); err != nil {
			return err
		}
	}

	return nil
}

func runHealth(ctx context.Context, client *deepseek.Client, jsonOut bool) error {
	healthy := client.HealthCheck(ctx)

	if err := printResult(jsonOut,
		func() (string, error) { return render.HealthJSON(healthy) },
		func() string { return render.Health(healthy) }); err != nil {
		return err
	}

	if !healthy {
		return errUnhealthy
	}
	return nil
}

// newClient resolves the token and builds an API client against the
// configured base URL.
func newClient(cfg config.Config, opts *rootOptions) (*deepseek.Client, error) {
	cred, err := config.ResolveToken(opts.token)
	if err != nil {
		return nil, err
	}
	if cred.FromFallbackEnv() {
		fmt.Fprintf(os.Stderr, "Note: Using token from %s environment variable\n", cred.Source)
	}
	return deepseek.New(cred.Token, deepseek.WithBaseURL(cfg.BaseURL)), nil
}

func printVerboseDiagnostics(ctx context.Context, client *deepseek.Client, opts *rootOptions) {
	cred, err := config.ResolveToken(opts.token)
	if err == nil {
		fmt.Fprintf(os.Stderr, "Using API token: %s\n", cred.Masked())
	}

	if client.HealthCheck(ctx) {
		fmt.Fprintln(os.Stderr, "API Health: Healthy")
	} else {
		fmt.Fprintln(os.Stderr, "API Health: Unhealthy")
		fmt.Fprintln(os.Stderr, "Warning: API may not be accessible")
	}
}

// recordBalance appends the fetch to the local history DB. Best-effort: a
// store failure must never fail the balance command itself.
func recordBalance(ctx context.Context, cfg config.Config, balance deepseek.Balance) {
	if !cfg.History {
		return
	}

	store, err := history.OpenStore(config.HistoryPath())
	if err != nil {
		log.Printf("history disabled for this run: %v", err)
		return
	}
	defer store.Close()

	if err := store.Record(ctx, balance); err != nil {
		log.Printf("recording balance snapshot: %v", err)
	}
}

func printResult(jsonOut bool, jsonFn func() (string, error), textFn func() string) error {
	if jsonOut {
		out, err := jsonFn()
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}
	fmt.Println(textFn())
	return nil
}
