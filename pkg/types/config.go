package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. Source
	// sites reject obvious bot agents, so the default mimics a browser.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// HarvestConfig holds settings for the page-harvesting stage.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// Selectors are the CSS selectors scanned for document links, in order.
	// Sources differ in markup, so the set is configurable.
	Selectors []string `json:"selectors" yaml:"selectors"`
}

// ProbeConfig holds settings for the gap-fill existence probes.
type ProbeConfig struct {
	HTTPConfig `yaml:",inline"`

	// Delay is the pause between consecutive probes against the archive.
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// DownloadConfig holds settings for the download stage.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// Delay is the pause between consecutive downloads.
	Delay time.Duration `json:"delay" yaml:"delay"`

	// RootDir is the base directory under which subject folders live.
	RootDir string `json:"root_dir" yaml:"root_dir"`
}

// ManifestConfig holds settings for manifest emission.
type ManifestConfig struct {
	// JSONPath is the destination of the structured record list.
	JSONPath string `json:"json_path" yaml:"json_path"`

	// CSVPath is the destination of the flat tabular form.
	CSVPath string `json:"csv_path" yaml:"csv_path"`
}

// InventoryConfig holds settings for the SQLite inventory database.
type InventoryConfig struct {
	// DBPath is the SQLite database file location.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// PipelineConfig groups all stage configurations for a run.
type PipelineConfig struct {
	Harvest   HarvestConfig   `json:"harvest" yaml:"harvest"`
	Probe     ProbeConfig     `json:"probe" yaml:"probe"`
	Download  DownloadConfig  `json:"download" yaml:"download"`
	Manifest  ManifestConfig  `json:"manifest" yaml:"manifest"`
	Inventory InventoryConfig `json:"inventory" yaml:"inventory"`
}
