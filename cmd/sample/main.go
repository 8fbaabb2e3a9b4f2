package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tushar-indygen/leadform"
	"github.com/tushar-indygen/leadform/internal"
)

// The sample CLI exercises a full form session the way a host page would:
// import a schema (local file or remote workflow id), walk the pages while
// filling in answers, and capture the lead on the last page. With -csv it
// instead batch-imports leads from a CSV file through the same schema.
func main() {
	schemaFile := flag.String("schema", "", "Path to a schema JSON file")
	workflowID := flag.String("workflow", "", "Remote workflow record id to import via the gateway")
	gatewayURL := flag.String("gateway", "", "Gateway base URL (required for -workflow and for submitting captures)")
	token := flag.String("token", "", "Bearer token for the gateway")
	answersFile := flag.String("answers", "", "Path to a JSON file of field values to fill in")
	csvFile := flag.String("csv", "", "Path to a CSV file of leads to batch-import")
	stateDir := flag.String("state-dir", "", "Directory for persisted session state (empty disables persistence)")
	sqlitePath := flag.String("sqlite", "", "SQLite file for persisted session state (overrides -state-dir)")
	dryRun := flag.Bool("dry-run", false, "Validate and print without submitting to the gateway")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")

	flag.Parse()

	// Setup logging
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if *verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.Development = true
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Errorf("failed to build logger: %w", err))
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()

	if *schemaFile == "" && *workflowID == "" {
		sugar.Error("Error: one of -schema or -workflow is required")
		flag.Usage()
		os.Exit(1)
	}
	if *workflowID != "" && *gatewayURL == "" {
		sugar.Error("Error: -gateway is required with -workflow")
		os.Exit(1)
	}

	ctx := context.Background()

	appCfg := leadform.DefaultConfig()
	appCfg.App.Name = "sample"

	// Session persistence
	var persist internal.StatePersistence
	switch {
	case *sqlitePath != "":
		p, closeFn, err := internal.NewSQLiteStatePersistence(*sqlitePath)
		if err != nil {
			sugar.Fatalf("failed to open sqlite state: %v", err)
		}
		defer closeFn()
		persist = p
	case *stateDir != "":
		persist = internal.NewFileStatePersistence(*stateDir)
	}

	store := internal.NewWorkflowStore(appCfg, persist)

	var gateway *internal.GatewayClient
	if *gatewayURL != "" {
		appCfg.Gateway.BaseURL = *gatewayURL
		appCfg.Gateway.BearerToken = *token
		gateway = internal.NewGatewayClient(appCfg.Gateway)
	}
	importer := internal.NewImporter(store, gateway, appCfg.Import)

	// Import the schema
	switch {
	case *schemaFile != "":
		data, err := os.ReadFile(*schemaFile)
		if err != nil {
			sugar.Fatalf("failed to read schema file: %v", err)
		}
		if err := importer.ImportFile(*schemaFile, data); err != nil {
			sugar.Fatalf("schema import failed: %v", err)
		}
	default:
		if _, err := importer.ImportRemote(ctx, *workflowID); err != nil {
			sugar.Fatalf("remote schema import failed: %v", err)
		}
	}
	schema := store.Schema()
	sugar.Infow("schema imported", "pages", len(schema.Pages), "workflowId", schema.Metadata.ID)

	// CSV batch mode
	if *csvFile != "" {
		submit := func(ctx context.Context, values leadform.FormValues) error {
			if *dryRun || gateway == nil {
				out, _ := json.Marshal(values)
				fmt.Println(string(out))
				return nil
			}
			_, err := gateway.CreateItem(ctx, schema.Metadata.ID, values)
			return err
		}
		csvImporter := NewLeadCSVImporter(schema, NewSchemaMapper(schema), submit)
		result, err := csvImporter.ImportFromFile(ctx, *csvFile)
		if err != nil {
			sugar.Fatalf("CSV import failed: %v", err)
		}
		for _, rowErr := range result.Errors {
			sugar.Warnw("row skipped", "error", rowErr.Error())
		}
		sugar.Info(result.Summary())
		if result.FailedCount > 0 {
			os.Exit(1)
		}
		return
	}

	// Single walkthrough mode
	answers := leadform.FormValues{}
	if *answersFile != "" {
		data, err := os.ReadFile(*answersFile)
		if err != nil {
			sugar.Fatalf("failed to read answers file: %v", err)
		}
		if err := json.Unmarshal(data, &answers); err != nil {
			sugar.Fatalf("failed to parse answers file: %v", err)
		}
	}

	if err := runWalkthrough(ctx, store, schema, answers, gateway, *dryRun, sugar); err != nil {
		sugar.Fatalf("walkthrough failed: %v", err)
	}
}

// runWalkthrough drives the renderer through every page, filling answers
// and stopping on validation errors, then captures the lead.
func runWalkthrough(ctx context.Context, store *internal.WorkflowStore, schema *leadform.FormSchema, answers leadform.FormValues, gateway *internal.GatewayClient, dryRun bool, sugar *zap.SugaredLogger) error {
	var captured leadform.FormValues
	renderer := internal.NewRenderer(store, internal.RendererOptions{
		OnComplete: func(values leadform.FormValues) {
			captured = values
		},
	})

	for {
		page := renderer.CurrentPage()
		if page == nil {
			return fmt.Errorf("no active page")
		}
		sugar.Infow("page", "index", page.Index+1, "total", page.Total, "title", page.Title)

		for _, control := range page.Controls {
			value, ok := answers[control.FieldID]
			if !ok {
				continue
			}
			if patch, isObj := value.(map[string]any); isObj {
				renderer.HandleCompositeChange(control.FieldID, patch)
			} else {
				renderer.HandleInputChange(control.FieldID, value)
			}
		}

		if errs := renderer.PageErrors(); len(errs) > 0 {
			for fieldID, msg := range errs {
				sugar.Errorw("validation error", "field", fieldID, "message", msg)
			}
			return fmt.Errorf("page %d has %d validation errors", page.Index+1, len(errs))
		}

		wasLast := renderer.IsLastPage()
		renderer.Next()
		if wasLast {
			break
		}
	}

	if captured == nil {
		return fmt.Errorf("capture did not complete")
	}
	if alert := renderer.Alert(); alert != nil {
		sugar.Infow("alert", "title", alert.Title, "description", alert.Description)
	}

	out, err := json.MarshalIndent(captured, "", "  ")
	if err != nil {
		return fmt.Errorf("encode captured values: %w", err)
	}
	fmt.Println(string(out))

	if !dryRun && gateway != nil {
		record, err := gateway.CreateItem(ctx, schema.Metadata.ID, captured)
		if err != nil {
			return fmt.Errorf("submit capture: %w", err)
		}
		sugar.Infow("capture submitted", "id", record["id"])
	}
	return nil
}
