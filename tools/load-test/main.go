// Fires concurrent punches at the API. At most four can succeed per day;
// everything else must come back as a 400, never as a lost update.
package main

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
)

type results struct {
	recorded, rejected, failed atomic.Int64
}

func (r *results) record(status int, err error) {
	switch {
	case err != nil:
		r.failed.Add(1)
	case status >= 200 && status < 300:
		r.recorded.Add(1)
	case status == http.StatusBadRequest:
		r.rejected.Add(1)
	default:
		r.failed.Add(1)
	}
}

func punchAll(url string, requests, concurrency int) *results {
	var res results
	jobs := make(chan struct{})
	client := &http.Client{Timeout: 10 * time.Second}

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				resp, err := client.Post(url, "application/json", nil)
				if err != nil {
					res.record(0, err)
					continue
				}
				resp.Body.Close()
				res.record(resp.StatusCode, nil)
			}
		}()
	}

	for i := 0; i < requests; i++ {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()
	return &res
}

func main() {
	var (
		url         string
		requests    int
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "load-test",
		Short: "Send concurrent punches and report how many were recorded",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Starting load test: %d punches to %s with concurrency %d\n", requests, url, concurrency)

			start := time.Now()
			res := punchAll(url, requests, concurrency)

			fmt.Fprintln(out, "\n--- Load Test Results ---")
			fmt.Fprintf(out, "Total Duration: %v\n", time.Since(start))
			fmt.Fprintf(out, "Total Requests: %d\n", requests)
			fmt.Fprintf(out, "Recorded:       %d\n", res.recorded.Load())
			fmt.Fprintf(out, "Rejected:       %d\n", res.rejected.Load())
			fmt.Fprintf(out, "Failed:         %d\n", res.failed.Load())
			if res.recorded.Load() > 4 {
				return fmt.Errorf("%d punches recorded for one day", res.recorded.Load())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://localhost:8080/api/v1/journey/punch", "punch endpoint")
	cmd.Flags().IntVarP(&requests, "requests", "n", 50, "total punches to send")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 10, "concurrent requests")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
