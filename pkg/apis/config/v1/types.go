package v1

// ShipwatchConfig is the optional YAML configuration file. Flags take
// precedence over values set here.
type ShipwatchConfig struct {
	Platform PlatformConfig `yaml:"platform"`
	GitHub   GitHubConfig   `yaml:"github"`
}

// PlatformConfig describes the deployment platform being watched.
type PlatformConfig struct {
	// URL is the base URL of the platform, e.g. https://deploy.example.com
	URL string `yaml:"url"`

	// ApplicationID identifies the application whose deployments are polled.
	ApplicationID string `yaml:"applicationId"`
}

// GitHubConfig describes how status is mirrored to GitHub.
type GitHubConfig struct {
	// Environment names the GitHub deployment environment, e.g. production.
	Environment string `yaml:"environment"`
}
