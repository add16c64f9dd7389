// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yselmaoui/bac-harvester/internal/inventory"
	"github.com/yselmaoui/bac-harvester/pkg/types"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Inspect the SQLite inventory of collected assets",
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collected assets, optionally filtered by subject",
	RunE:  runInventoryList,
}

var inventoryRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent pipeline runs, newest first",
	RunE:  runInventoryRuns,
}

func init() {
	inventoryCmd.PersistentFlags().String("db", "inventory.db", "SQLite inventory database path")

	inventoryListCmd.Flags().String("subject", "", "filter by subject code (e.g. Math)")
	inventoryListCmd.Flags().Bool("json", false, "output assets as JSON")

	inventoryRunsCmd.Flags().Int("last", 10, "number of runs to show")

	inventoryCmd.AddCommand(inventoryListCmd)
	inventoryCmd.AddCommand(inventoryRunsCmd)
	rootCmd.AddCommand(inventoryCmd)
}

func openInventory(cmd *cobra.Command) (*inventory.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath, _ = inventoryCmd.PersistentFlags().GetString("db")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no inventory database at %s, run harvest first", dbPath)
	}
	return inventory.NewStore(types.InventoryConfig{DBPath: dbPath})
}

func runInventoryList(cmd *cobra.Command, args []string) error {
	store, err := openInventory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	subject, _ := cmd.Flags().GetString("subject")
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := context.Background()
	assets, err := store.ListAssets(ctx, subject)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(assets)
	}

	for _, a := range assets {
		fmt.Fprintf(os.Stdout, "%-6s %-4s %-10s %-10s %s\n",
			a.SubjectCode, a.Year, a.Session, a.AssetType, filepath.Base(a.LocalPath))
	}

	counts, err := store.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)
	for _, c := range counts {
		fmt.Fprintf(os.Stdout, "%s: %d asset(s)\n", c.SubjectCode, c.Assets)
	}
	return nil
}

func runInventoryRuns(cmd *cobra.Command, args []string) error {
	store, err := openInventory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	last, _ := cmd.Flags().GetInt("last")
	runs, err := store.LastRuns(context.Background(), last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-9s  %-9s  %-10s  %-7s  %-6s  %s\n",
		"Finished", "Harvested", "GapFilled", "Downloaded", "Skipped", "Failed", "Missing")
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-20s  %-9d  %-9d  %-10d  %-7d  %-6d  %d\n",
			r.Finished.Local().Format("2006-01-02 15:04:05"),
			r.Harvested, r.GapFilled, r.Downloaded, r.Skipped, r.Failed, r.Missing)
	}
	return nil
}
