// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yselmaoui/bac-harvester/internal/reconcile"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Report inventory coverage without downloading anything",
	Long: `Gaps runs the harvest and reconciliation stages, probes the archive
templates for the combinations no source page listed, and prints which
expected (subject, year, session, type) documents would still be missing.
Nothing is downloaded and no manifest is written.`,
	RunE: runGaps,
}

func init() {
	gapsCmd.Flags().Duration("timeout", defaultPageTimeout, "HTTP timeout for page fetches")
	gapsCmd.Flags().String("root-dir", ".", "base directory for subject folders")
	gapsCmd.Flags().String("user-agent", "", "override the browser-like User-Agent header")
	gapsCmd.Flags().Bool("no-probe", false, "skip archive probes, report raw page coverage")

	rootCmd.AddCommand(gapsCmd)
}

func runGaps(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	rootDir, _ := cmd.Flags().GetString("root-dir")
	noProbe, _ := cmd.Flags().GetBool("no-probe")

	ctx := context.Background()
	started := time.Now()

	ix, harvested, filled := collectIndex(ctx, cmd, catalog, rootDir, !noProbe)
	missing := ix.Missing()

	expected := len(reconcile.ExpectedKeys(catalog))
	fmt.Fprintf(os.Stdout, "\nCoverage: %d/%d expected assets (%d harvested candidates, %d gap-filled)\n",
		ix.Len(), expected, harvested, filled)

	if len(missing) > 0 {
		fmt.Fprintln(os.Stdout, "\nMissing:")
		for _, key := range missing {
			fmt.Fprintf(os.Stdout, "  %s\n", key)
		}
	}

	fmt.Fprintf(os.Stdout, "\nDone in %s\n", time.Since(started).Round(time.Second))
	return nil
}
