package main

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var apiBase string

func main() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", defaultAPIBase(), "API base URL (env API_BASE)")
	rootCmd.AddCommand(checkCmd, historyCmd, uptimeCmd, favoritesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultAPIBase() string {
	if v := os.Getenv("API_BASE"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

var rootCmd = &cobra.Command{
	Use:          "apihealth",
	Short:        "Probe HTTP endpoints and inspect their uptime",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [url]",
	Short: "Probe a URL now and show the dashboard",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw string
		if len(args) == 1 {
			raw = args[0]
		} else {
			fmt.Fprint(cmd.OutOrStdout(), "Enter a site URL to check (e.g., https://example.com): ")
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			raw = line
		}
		target, err := normalizeInput(raw)
		if err != nil {
			return err
		}
		d, err := newClient(apiBase).Check(cmd.Context(), target)
		if err != nil {
			return err
		}
		printDashboard(cmd.OutOrStdout(), d)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <url>",
	Short: "List every stored check of a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newClient(apiBase).History(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printChecks(cmd.OutOrStdout(), h.Checks)
		return nil
	},
}

var uptimeCmd = &cobra.Command{
	Use:   "uptime",
	Short: "Show uptime per probed URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := newClient(apiBase).Uptime(cmd.Context())
		if err != nil {
			return err
		}
		printUptime(cmd.OutOrStdout(), stats)
		return nil
	},
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List bookmarked endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eps, err := newClient(apiBase).Favorites(cmd.Context())
		if err != nil {
			return err
		}
		printFavorites(cmd.OutOrStdout(), eps)
		return nil
	},
}

// normalizeInput trims typed input and assumes https when no scheme is given.
func normalizeInput(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("no URL given")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return "", fmt.Errorf("invalid URL %q", raw)
	}
	return raw, nil
}
