// Package config loads changelint configuration from files and environment.
package config

// Config is the root configuration shape.
type Config struct {
	Analyzer      AnalyzerConfig      `mapstructure:"analyzer"`
	Git           GitConfig           `mapstructure:"git"`
	Report        ReportConfig        `mapstructure:"report"`
	GitHub        GitHubConfig        `mapstructure:"github"`
	Store         StoreConfig         `mapstructure:"store"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AnalyzerConfig controls the external analyzer invocation.
type AnalyzerConfig struct {
	Binary  string         `mapstructure:"binary"`
	Timeout string         `mapstructure:"timeout"`
	Workers int            `mapstructure:"workers"`
	Options []OptionConfig `mapstructure:"options"`
}

// OptionConfig is one analyzer option, passed through opaquely. Options are a
// list rather than a map so their order survives configuration loading.
type OptionConfig struct {
	Name  string `mapstructure:"name"`
	Value any    `mapstructure:"value"`
}

// GitConfig controls repository access.
type GitConfig struct {
	RepositoryDir string `mapstructure:"repositoryDir"`
}

// ReportConfig controls rendering.
type ReportConfig struct {
	Inline bool `mapstructure:"inline"`

	// LegacySuggestions reproduces the historical aggregate rendering in
	// which the Suggestions section showed the warnings bucket.
	LegacySuggestions bool `mapstructure:"legacySuggestions"`
}

// GitHubConfig identifies the pull request reports are delivered to.
// The token is read from the GITHUB_TOKEN environment variable, never from
// configuration files.
type GitHubConfig struct {
	Owner     string `mapstructure:"owner"`
	Repo      string `mapstructure:"repo"`
	PRNumber  int    `mapstructure:"prNumber"`
	CommitSHA string `mapstructure:"commitSHA"`
}

// StoreConfig controls the optional run history store.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ObservabilityConfig controls logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
}
