// Command alphamatte recovers a transparent PNG from two local captures
// of the same subject, one over a white background and one over black.
//
// Usage:
//
//	alphamatte [-workers N] <image_on_white> <image_on_black> <output.png>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go-alpha-matte/internal/extractor"
	"go-alpha-matte/internal/observer"
	"go-alpha-matte/internal/repository"
	"go-alpha-matte/internal/service"
	"go-alpha-matte/internal/storage"
	"go-alpha-matte/pkg/models"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("alphamatte", flag.ContinueOnError)
	fs.SetOutput(stderr)
	workers := fs.Int("workers", 0, "row strips processed concurrently (0 = one per CPU)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: alphamatte [-workers N] <image_on_white> <image_on_black> <output.png>")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Creates a transparent PNG from two captures of the same subject:")
		fmt.Fprintln(stderr, "one over a white background and one over a black background.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return 2
	}
	whitePath, blackPath, outPath := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	engine := extractor.NewEngine(extractor.Options{Workers: *workers})
	defer engine.Close()

	captures := repository.NewCapturePairRepository(storage.NewLocalImageFetcher(""), nil)
	svc := service.NewExtractionService(captures, engine, observer.NewEventPublisher())

	resp, err := svc.ExtractMatte(context.Background(), models.ExtractionRequest{
		WhiteURL: whitePath,
		BlackURL: blackPath,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	for _, warning := range resp.Warnings {
		fmt.Fprintf(stderr, "Warning: %s\n", warning)
	}

	if err := os.WriteFile(outPath, resp.PNG, 0o644); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Transparent PNG file created: %s (%dx%d, coverage %.1f%%)\n",
		outPath, resp.Width, resp.Height, resp.Stats.Coverage*100)
	return 0
}
