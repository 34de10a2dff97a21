package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"zenith-planner/internal/app"
	"zenith-planner/internal/config"
	"zenith-planner/internal/metrics"
	"zenith-planner/internal/plan"
	"zenith-planner/internal/session"
	"zenith-planner/internal/store"
	"zenith-planner/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	planStore, err := store.Open(cfg.DataPath)
	if err != nil {
		log.Fatalf("Failed to open plan store: %v", err)
	}

	metricsStore, err := metrics.NewStore(cfg.MetricsDBPath)
	if err != nil {
		log.Fatalf("Failed to initialize metrics store: %v", err)
	}
	defer metricsStore.Close()

	dayPlanner, closer := app.NewDayPlanner(ctx, cfg)
	if closer != nil {
		defer closer.Close()
	}

	application := app.NewApp(planStore, metricsStore, dayPlanner, cfg)

	command := "tui"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "tui":
		runTUI(ctx, application)
	case "show":
		date := ""
		if len(os.Args) > 2 {
			date = os.Args[2]
		}
		if err := application.ShowPlan(os.Stdout, date); err != nil {
			log.Fatalf("Show failed: %v", err)
		}
	case "generate":
		if err := application.Generate(ctx, os.Stdout); err != nil {
			log.Fatalf("Generation failed: %v", err)
		}
	case "reset":
		date := ""
		if len(os.Args) > 2 {
			date = os.Args[2]
		}
		if err := application.ResetDate(os.Stdin, os.Stdout, date); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
	case "metrics":
		usage, err := metricsStore.GetDailyUsage(7)
		if err != nil {
			log.Fatalf("Failed to fetch metrics: %v", err)
		}
		if len(usage) == 0 {
			fmt.Println("No LLM usage recorded in the last 7 days.")
		}
		for _, d := range usage {
			fmt.Printf("%s: %d prompt + %d completion tokens (%d executions)\n",
				d.Date, d.TotalPrompt, d.TotalCompletion, d.TotalExecution)
		}
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runTUI(ctx context.Context, application *app.App) {
	sess := session.New(application.Store, plan.Today())

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, err := application.Store.Watch(watchCtx)
	if err != nil {
		log.Printf("Warning: store watching disabled: %v", err)
		events = nil
	}

	model := tui.New(sess, application.DayPlanner, application.MetricsStore, events)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("TUI failed: %v", err)
	}
}

func printUsage() {
	fmt.Println("Usage: zenith-planner [command] [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  tui                Interactive planner sheet (default)")
	fmt.Println("  show [date]        Print the sheet for a date (default today)")
	fmt.Println("  generate           Generate today's plan from its priorities")
	fmt.Println("  reset [date]       Reset one date's sheet to defaults")
	fmt.Println("  metrics            Show LLM usage for the last 7 days")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
