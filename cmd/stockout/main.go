package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func main() {
	// Command line flags
	var (
		scenarioFile = flag.String(
			"scenario",
			"",
			"Path to scenario JSON file to replay",
		)
		listUnits = flag.Bool("units", false, "Fetch and print the unit master list")
		format    = flag.String("format", "text", "Output format: text, json")
		submit    = flag.Bool("submit", false, "Submit the replayed checkout to the live backend")
		verbose   = flag.Bool("verbose", false, "Enable verbose output")
		help      = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	config := Config{
		ScenarioFile: *scenarioFile,
		ListUnits:    *listUnits,
		Format:       *format,
		Submit:       *submit,
		Verbose:      *verbose,
		Help:         *help,
	}

	cmd := NewCheckoutCommand(config)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
