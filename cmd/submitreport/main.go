// Command submitreport posts a daily precipitation report to a running
// dashboard service, which logs it and relays it to CoCoRaHS when the relay
// is enabled.
//
// Usage:
//
//	go run ./cmd/submitreport \
//	  -server http://localhost:8080 \
//	  -date 2026-02-03 \
//	  -gauge 0.25 -snowfall T \
//	  -notes "light rain overnight"
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

type reportBody struct {
	ReportDate      string `json:"reportDate"`
	GaugeCatch      string `json:"gaugeCatch,omitempty"`
	SnowfallAmount  string `json:"snowfallAmount,omitempty"`
	SnowfallSWE     string `json:"snowfallSWE,omitempty"`
	SnowpackDepth   string `json:"snowpackDepth,omitempty"`
	SnowpackSWE     string `json:"snowpackSWE,omitempty"`
	AdditionalNotes string `json:"additionalNotes,omitempty"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	server := flag.String("server", "http://localhost:8080", "dashboard service base URL")
	date := flag.String("date", "", "observation date (YYYY-MM-DD, required)")
	gauge := flag.String("gauge", "", "gauge catch in inches, or T for trace")
	snowfall := flag.String("snowfall", "", "new snowfall in inches, or T for trace")
	snowfallSWE := flag.String("snowfall-swe", "", "new snow water equivalent in inches")
	depth := flag.String("depth", "", "total snowpack depth in inches")
	depthSWE := flag.String("depth-swe", "", "snowpack water equivalent in inches")
	notes := flag.String("notes", "", "additional notes")
	flag.Parse()

	if *date == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -date")
	}

	body, err := json.Marshal(reportBody{
		ReportDate:      *date,
		GaugeCatch:      *gauge,
		SnowfallAmount:  *snowfall,
		SnowfallSWE:     *snowfallSWE,
		SnowpackDepth:   *depth,
		SnowpackSWE:     *depthSWE,
		AdditionalNotes: *notes,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, *server+"/api/reports", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response (status %s): %w", resp.Status, err)
	}

	log.Printf("status=%s success=%t id=%s", resp.Status, result.Success, result.ID)
	log.Print(result.Message)
	if !result.Success {
		return fmt.Errorf("report was not accepted")
	}
	return nil
}
