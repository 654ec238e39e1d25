package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/steeltrace/stockout/pkg/checkout"
	"github.com/steeltrace/stockout/pkg/infrastructure/events"
	"github.com/steeltrace/stockout/pkg/infrastructure/rest"
)

// Config holds configuration for the checkout command
type Config struct {
	ScenarioFile string
	ListUnits    bool
	Format       string
	Submit       bool
	Verbose      bool
	Help         bool
}

// CheckoutCommand replays checkout scenarios and talks to the live backend
type CheckoutCommand struct {
	config Config
}

// NewCheckoutCommand creates a new checkout command with the given
// configuration
func NewCheckoutCommand(config Config) *CheckoutCommand {
	return &CheckoutCommand{
		config: config,
	}
}

// Execute runs the checkout command
func (c *CheckoutCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if c.config.Format != "text" && c.config.Format != "json" {
		return fmt.Errorf("unsupported format %q", c.config.Format)
	}

	if c.config.ListUnits {
		return c.runListUnits(ctx)
	}
	if c.config.ScenarioFile != "" {
		return c.runScenario(ctx)
	}

	return fmt.Errorf("must specify -units or -scenario <file>")
}

// runListUnits fetches and prints the unit master list from the live backend
func (c *CheckoutCommand) runListUnits(ctx context.Context) error {
	client, err := c.liveClient()
	if err != nil {
		return err
	}

	catalog, err := checkout.LoadUnitCatalog(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to load unit catalog: %w", err)
	}

	return printUnits(catalog.All(), c.config.Format)
}

// runScenario replays a scenario file through a checkout session and prints
// the resulting form state
func (c *CheckoutCommand) runScenario(ctx context.Context) error {
	scenario, err := LoadScenario(c.config.ScenarioFile)
	if err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Printf("Scenario: %s\n", c.config.ScenarioFile)
		fmt.Printf("Item: %d (%s)\n", scenario.Item.ID, scenario.Item.ModelType)
		fmt.Printf("Edits: %d\n\n", len(scenario.Edits))
	}

	var live checkout.StockOutAPI
	if c.config.Submit {
		client, err := c.liveClient()
		if err != nil {
			return err
		}
		live = client
	}

	api := newScenarioAPI(scenario, live)
	store := events.NewInMemoryEventStore()

	session, err := checkout.NewSession(ctx, scenario.Item, api, checkout.SessionOptions{
		Events: store,
	})
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	for i, edit := range scenario.Edits {
		if err := edit.Apply(ctx, session); err != nil {
			return fmt.Errorf("edit %d (%s): %w", i+1, edit.Action, err)
		}
		if c.config.Verbose {
			fmt.Printf("applied %s\n", edit.Action)
		}
	}

	submitted := false
	var submitErr error
	if c.config.Submit {
		submitErr = session.Submit(ctx)
		submitted = submitErr == nil
		if submitErr != nil && !errors.Is(submitErr, checkout.ErrAlreadySubmitted) && c.config.Verbose {
			fmt.Printf("submission failed: %v\n", submitErr)
		}
	}

	audit, err := store.ReadEvents(session.ID().String(), 1)
	if err != nil {
		return fmt.Errorf("failed to read audit trail: %w", err)
	}

	result := replayResult{
		Session:     session,
		Audit:       audit,
		Submitted:   submitted,
		SubmitError: submitErr,
		Verbose:     c.config.Verbose,
	}
	if err := printReplay(result, c.config.Format); err != nil {
		return err
	}
	return submitErr
}

// liveClient builds a REST client from the viper configuration. Settings come
// from stockout.yaml in the working directory or home, overridable through
// STOCKOUT_* environment variables.
func (c *CheckoutCommand) liveClient() (*rest.Client, error) {
	v := viper.New()
	v.SetConfigName("stockout")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.stockout")
	v.SetEnvPrefix("STOCKOUT")
	v.AutomaticEnv()
	v.SetDefault("timeout", "30s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	baseURL := v.GetString("base_url")
	if baseURL == "" {
		return nil, fmt.Errorf("base_url is not configured (stockout.yaml or STOCKOUT_BASE_URL)")
	}

	timeout, err := time.ParseDuration(v.GetString("timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid timeout: %w", err)
	}

	return rest.NewClient(rest.Config{
		BaseURL: baseURL,
		Token:   v.GetString("token"),
		Timeout: timeout,
	})
}

// showHelp displays the help message
func (c *CheckoutCommand) showHelp() {
	fmt.Printf(`stockout - inventory checkout form engine CLI

USAGE:
    stockout -units                        # Fetch and print the unit master list
    stockout -scenario <file>              # Replay a scenario file offline
    stockout -scenario <file> -submit      # Replay, then submit to the backend

OPTIONS:
    -units              Fetch and print the unit master list
    -scenario <file>    Path to scenario JSON file to replay
    -format <fmt>       Output format: text, json (default: text)
    -submit             Submit the replayed checkout to the live backend
    -verbose            Enable verbose output
    -help               Show this help message

CONFIGURATION:
    Live backend access reads stockout.yaml from the working directory or
    ~/.stockout, overridable through environment variables:

    base_url: https://backend.example.com/api      STOCKOUT_BASE_URL
    token: <api token>                             STOCKOUT_TOKEN
    timeout: 30s                                   STOCKOUT_TIMEOUT

SCENARIO FILE FORMAT:
    {
      "item": {"id": 101, "model_type": "raw_material",
               "blank_size": "1000", "slit_size": "100", "thickness": "10"},
      "products": [{"id": 11, "item_name": "BRACKET-250-A"}],
      "sequences": [{"id": 21, "name": "Stamping"}],
      "steps": [{"id": 31, "name": "Blank"}],
      "edits": [
        {"action": "raw_quantity", "value": "10"},
        {"action": "product_quantity", "value": "7"},
        {"action": "checkin_remarks", "value": "stock out"},
        {"action": "checkout_remarks", "value": "to stamping"},
        {"action": "select_product", "id": 11},
        {"action": "select_sequence", "id": 21},
        {"action": "select_step", "id": 31}
      ]
    }

EXAMPLES:
    # Replay a checkout and inspect the derived fields
    stockout -scenario example/standard_checkout.json -verbose

    # Same, as JSON for scripting
    stockout -scenario example/standard_checkout.json -format json

    # Submit the replayed checkout
    STOCKOUT_TOKEN=... stockout -scenario example/standard_checkout.json -submit
`)
}
