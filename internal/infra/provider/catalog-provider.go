package provider

import (
	"fmt"
	"os"
	"tour-companion/internal/domain/entities"
	"tour-companion/internal/infra/logger"

	"github.com/goccy/go-yaml"
)

type tourCatalogFile struct {
	Tours []entities.RoleTourConfig `yaml:"tours"`
}

// YamlTourCatalogProvider serves role tour configurations from a YAML catalog
// file loaded once at startup.
type YamlTourCatalogProvider struct {
	Logger *logger.Logger
	tours  map[string]*entities.RoleTourConfig
}

func NewYamlTourCatalogProvider(logger *logger.Logger, path string) (*YamlTourCatalogProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tour catalog %s: %w", path, err)
	}

	var catalog tourCatalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse tour catalog %s: %w", path, err)
	}

	tours := make(map[string]*entities.RoleTourConfig, len(catalog.Tours))
	for i := range catalog.Tours {
		tour := catalog.Tours[i]
		tours[tour.Role] = &tour
	}

	logger.Info(fmt.Sprintf("Loaded tour catalog with %d role configurations from %s", len(tours), path))
	return &YamlTourCatalogProvider{Logger: logger, tours: tours}, nil
}

// GetTourConfig returns the configuration for the role, or nil when the role
// has no tour.
func (cp *YamlTourCatalogProvider) GetTourConfig(role string) *entities.RoleTourConfig {
	return cp.tours[role]
}
