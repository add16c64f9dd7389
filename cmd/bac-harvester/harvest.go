package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yselmaoui/bac-harvester/internal/download"
	"github.com/yselmaoui/bac-harvester/internal/harvest"
	"github.com/yselmaoui/bac-harvester/internal/httputil"
	"github.com/yselmaoui/bac-harvester/internal/inventory"
	"github.com/yselmaoui/bac-harvester/internal/manifest"
	"github.com/yselmaoui/bac-harvester/internal/reconcile"
	"github.com/yselmaoui/bac-harvester/internal/sources"
	"github.com/yselmaoui/bac-harvester/pkg/types"
)

const (
	defaultPageTimeout     = 30 * time.Second
	defaultProbeTimeout    = 20 * time.Second
	defaultDownloadTimeout = 45 * time.Second
	defaultDelay           = 1 * time.Second
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Run the full pipeline: harvest, reconcile, fill gaps, download",
	Long: `Harvest fetches every configured source page, extracts and classifies
document links, reconciles them into one asset per (subject, year, session,
type), probes archive templates for the combinations no page listed, then
downloads everything that is not already on disk and writes the JSON and
CSV manifests plus the SQLite inventory.

The run is idempotent: existing files are skipped, and assets that failed
to download are picked up by the next run. Individual page or document
failures never abort the run.`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().Duration("timeout", defaultPageTimeout, "HTTP timeout for page fetches")
	harvestCmd.Flags().Duration("download-timeout", defaultDownloadTimeout, "HTTP timeout for document downloads")
	harvestCmd.Flags().Duration("delay", defaultDelay, "delay between consecutive downloads")
	harvestCmd.Flags().String("root-dir", ".", "base directory for subject folders")
	harvestCmd.Flags().String("json-manifest", "exams_metadata.json", "JSON manifest path")
	harvestCmd.Flags().String("csv-manifest", "exams_metadata.csv", "CSV manifest path")
	harvestCmd.Flags().String("db", "inventory.db", "SQLite inventory database path")
	harvestCmd.Flags().String("user-agent", "", "override the browser-like User-Agent header")
	harvestCmd.Flags().Bool("no-gaps", false, "skip archive gap filling")
	harvestCmd.Flags().Bool("no-inventory", false, "skip the SQLite inventory update")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	rootDir, _ := cmd.Flags().GetString("root-dir")
	delay, _ := cmd.Flags().GetDuration("delay")
	dlTimeout, _ := cmd.Flags().GetDuration("download-timeout")
	jsonPath, _ := cmd.Flags().GetString("json-manifest")
	csvPath, _ := cmd.Flags().GetString("csv-manifest")
	dbPath, _ := cmd.Flags().GetString("db")
	noGaps, _ := cmd.Flags().GetBool("no-gaps")
	noInventory, _ := cmd.Flags().GetBool("no-inventory")

	ctx := context.Background()
	started := time.Now()

	ix, harvested, filled := collectIndex(ctx, cmd, catalog, rootDir, !noGaps)
	missing := reconcile.ReportMissing(ix)

	dcfg := types.DownloadConfig{
		HTTPConfig: httpConfig(cmd, dlTimeout),
		Delay:      delay,
		RootDir:    rootDir,
	}
	result := download.Run(ctx, httputil.NewClient(dcfg.HTTPConfig), ix.Sorted(), dcfg, os.Stdout)

	mcfg := types.ManifestConfig{JSONPath: jsonPath, CSVPath: csvPath}
	if err := manifest.Write(result.Accepted, mcfg); err != nil {
		return err
	}

	if !noInventory {
		recordRun(ctx, dbPath, inventory.RunSummary{
			Started:    started,
			Finished:   time.Now(),
			Harvested:  harvested,
			Reconciled: ix.Len(),
			GapFilled:  filled,
			Downloaded: result.Downloaded,
			Skipped:    result.Skipped,
			Failed:     result.Failed,
			Missing:    len(missing),
		}, result.Accepted)
	}

	fmt.Fprintf(os.Stdout, "Completed with %d downloadable asset(s), %d missing\n",
		len(result.Accepted), len(missing))
	return nil
}

// collectIndex runs the harvest and reconciliation stages and, when probe
// is set, fills vacant keys from the archive templates.
func collectIndex(ctx context.Context, cmd *cobra.Command, catalog sources.Catalog, rootDir string, probe bool) (ix *reconcile.Index, harvested, filled int) {
	pageTimeout, _ := cmd.Flags().GetDuration("timeout")

	hcfg := types.HarvestConfig{
		HTTPConfig: httpConfig(cmd, pageTimeout),
		Selectors:  harvest.DefaultSelectors,
	}
	assets := harvest.Subjects(ctx, httputil.NewClient(hcfg.HTTPConfig), catalog, hcfg, rootDir, os.Stdout)

	ix = reconcile.New(catalog)
	ix.PutAll(assets)

	if probe {
		// The gaps command defines no delay flag; probes then run unpaced.
		probeDelay, _ := cmd.Flags().GetDuration("delay")
		pcfg := types.ProbeConfig{HTTPConfig: httpConfig(cmd, defaultProbeTimeout), Delay: probeDelay}
		filled = reconcile.FillGaps(ctx, httputil.NewClient(pcfg.HTTPConfig), ix, rootDir, pcfg)
	}
	return ix, len(assets), filled
}

// loadCatalog reads the catalog named by the persistent --catalog flag, or
// the built-in defaults when the flag is unset.
func loadCatalog() (sources.Catalog, error) {
	path, _ := rootCmd.PersistentFlags().GetString("catalog")
	return sources.Load(path)
}

func httpConfig(cmd *cobra.Command, timeout time.Duration) types.HTTPConfig {
	agent, _ := cmd.Flags().GetString("user-agent")
	return types.HTTPConfig{Timeout: timeout, UserAgent: agent}
}

// recordRun updates the SQLite inventory. Inventory problems are reported
// but never fail a run that already materialized its downloads.
func recordRun(ctx context.Context, dbPath string, summary inventory.RunSummary, accepted []types.Asset) {
	store, err := inventory.NewStore(types.InventoryConfig{DBPath: dbPath})
	if err != nil {
		log.Warn().Err(err).Msg("inventory update skipped")
		return
	}
	defer store.Close()

	if err := store.RecordRun(ctx, summary, accepted); err != nil {
		log.Warn().Err(err).Msg("inventory update failed")
	}
}
