package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yselmaoui/bac-harvester/internal/sources"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Write the built-in catalog to a YAML file for customization",
	Long: `Catalog dumps the built-in subjects, source pages, archive templates,
and host ranking to a YAML file. Edit the file and pass it back with the
--catalog flag to harvest a customized source set.`,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().String("out", "catalog.yaml", "destination file")

	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	if _, err := os.Stat(out); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", out)
	}
	if err := sources.Write(sources.Default(), out); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", out)
	return nil
}
