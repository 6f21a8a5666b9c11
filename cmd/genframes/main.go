// Command genframes fetches an hourly forecast from Open-Meteo and writes a
// forecast frame loop as JSON. It uses the same client and frame builder as
// the dashboard service, so its output matches what /api/frames serves.
//
// Usage:
//
//	go run ./cmd/genframes \
//	  -lat 44.5337 -lon -72.0032 \
//	  -variable temperature_2m \
//	  -frames 12 \
//	  -out frames.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/lyndonwx/dashboard-service/internal/adapter/openmeteo"
	"github.com/lyndonwx/dashboard-service/internal/domain"
	"github.com/lyndonwx/dashboard-service/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	lat := flag.Float64("lat", 44.5337, "station latitude")
	lon := flag.Float64("lon", -72.0032, "station longitude")
	variable := flag.String("variable", domain.VarTemperature, "forecast variable")
	frames := flag.Int("frames", domain.DefaultFrameCount, "number of hourly frames")
	timeout := flag.Duration("timeout", 10*time.Second, "Open-Meteo request timeout")
	out := flag.String("out", "", "output path (default stdout)")
	flag.Parse()

	if !domain.ValidVariable(*variable) {
		return fmt.Errorf("unknown forecast variable %q", *variable)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := openmeteo.NewClient(*timeout, observability.NewMetricsForTesting(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	forecast, err := client.FetchHourly(ctx, *lat, *lon)
	if err != nil {
		return fmt.Errorf("fetch forecast: %w", err)
	}

	loop, err := domain.BuildFrameLoop(forecast, *variable, *frames)
	if err != nil {
		return fmt.Errorf("build frame loop: %w", err)
	}

	data, err := json.MarshalIndent(loop, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return err
	}
	log.Printf("wrote %d frames to %s", len(loop.Frames), *out)
	return nil
}
