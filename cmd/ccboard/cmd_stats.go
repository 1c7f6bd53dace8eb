package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ccboard/internal/analytics"
	"ccboard/internal/settings"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the corpus-wide stats snapshot",
	RunE:  runStats,
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show current-month spend against the configured budget",
	RunE:  runBudget,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective merged configuration",
	RunE:  runConfig,
}

func runStats(cmd *cobra.Command, args []string) error {
	snap := store.Stats()
	if snap == nil {
		fmt.Println("No stats loaded.")
		return nil
	}
	fmt.Printf("Sessions: %d\n", snap.TotalSessions)
	fmt.Printf("Tokens:   input=%d output=%d cache_read=%d cache_write=%d\n",
		snap.InputTokens, snap.OutputTokens, snap.CacheReadTokens, snap.CacheWriteTokens)
	fmt.Printf("Cost:     $%.2f\n", snap.TotalCostUSD)
	return nil
}

func runBudget(cmd *cobra.Command, args []string) error {
	derived := store.Settings()
	var ceiling float64
	if derived != nil && derived.Merged != nil {
		if b := settings.Budget(derived.Merged.Effective); b != nil {
			ceiling = b.MonthlyBudgetUSD
		}
	}

	status := analytics.ComputeBudget(store.AllSessions(), ceiling, time.Now())
	fmt.Printf("Current month cost:   $%.2f\n", status.CurrentCostUSD)
	fmt.Printf("Projected month cost: $%.2f\n", status.ProjectedCostUSD)
	if status.HasCeiling {
		fmt.Printf("Ceiling:              $%.2f\n", status.CeilingUSD)
	}
	fmt.Printf("Classification:       %s\n", status.Class)

	window, remaining := analytics.CurrentWindow(store.AllSessions(), time.Now())
	fmt.Printf("Current 5h window:    $%.2f across %d sessions, %s remaining\n",
		window.CostUSD, window.SessionCount, remaining.Round(time.Minute))
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	effective, _ := svc.MergedConfig()
	data, err := json.MarshalIndent(effective, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
