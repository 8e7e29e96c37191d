package ports

import "go.trai.ch/rebund/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration of the project rooted at root.
	// A missing config file yields the default configuration.
	Load(root string) (*domain.BuildConfig, error)

	// DiscoverRoot walks up from cwd to the directory holding rebund.yaml.
	// It returns cwd when no config file is found.
	DiscoverRoot(cwd string) (string, error)
}
