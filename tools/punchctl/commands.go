package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"punchclock.service/internal/core/model"
)

const defaultAPIURL = "http://localhost:8080"

type apiError struct {
	Message string `json:"message"`
}

func newRootCmd(out io.Writer) *cobra.Command {
	var apiURL string

	root := &cobra.Command{
		Use:           "punchctl",
		Short:         "Record punches and check today's journey",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&apiURL, "api", defaultAPIURL, "base URL of the punch clock API")

	client := func() *http.Client { return &http.Client{Timeout: 10 * time.Second} }

	root.AddCommand(&cobra.Command{
		Use:   "punch",
		Short: "Record the next punch of today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var journal model.DayJournal
			if err := call(cmd, client(), http.MethodPost, apiURL+"/api/v1/journey/punch", &journal); err != nil {
				return err
			}
			fmt.Fprintf(out, "Punch recorded. Status: %s\n", journal.Status)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show worked time and projected departure for today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var view model.StatusView
			if err := call(cmd, client(), http.MethodGet, apiURL+"/api/v1/journey/status", &view); err != nil {
				return err
			}
			printStatus(out, view)
			return nil
		},
	})

	return root
}

func call(cmd *cobra.Command, c *http.Client, method, url string, into any) error {
	req, err := http.NewRequestWithContext(cmd.Context(), method, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("API offline: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e apiError
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Message == "" {
			return fmt.Errorf("API returned status %d", resp.StatusCode)
		}
		return fmt.Errorf("%s", e.Message)
	}
	return json.NewDecoder(resp.Body).Decode(into)
}

func printStatus(out io.Writer, view model.StatusView) {
	departure := "--:--"
	if view.ProjectedDeparture != nil {
		departure = view.ProjectedDeparture.Local().Format("15:04:05")
	}
	fmt.Fprintln(out, view.Message)
	fmt.Fprintf(out, "  Status:    %s\n", view.Status)
	fmt.Fprintf(out, "  Worked:    %s\n", view.WorkedTime)
	fmt.Fprintf(out, "  Departure: %s\n", departure)
	if len(view.Punches) > 0 {
		fmt.Fprintf(out, "  Punches:   %s\n", strings.Join(view.Punches, ", "))
	}
}
