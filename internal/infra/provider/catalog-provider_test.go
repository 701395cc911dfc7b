package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"tour-companion/internal/infra/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogFixture = `
tours:
  - role: nurse
    overview: "Welcome to the nursing dashboard."
    steps:
      - target: "#patients"
        title: "Patients"
        content: "Your patients for this shift."
      - target: "#meds"
        title: "Medication"
        content: "Upcoming medication rounds."
  - role: admin
    overview: "Welcome to the admin console."
    steps:
      - target: "#users"
        title: "Users"
        content: "Manage staff accounts here."
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tour_catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCatalogProviderLoadsRoles(t *testing.T) {
	log := logger.NewLogger(context.Background(), false)
	catalog, err := NewYamlTourCatalogProvider(log, writeCatalog(t, catalogFixture))
	require.NoError(t, err)

	nurse := catalog.GetTourConfig("nurse")
	require.NotNil(t, nurse)
	assert.Equal(t, "Welcome to the nursing dashboard.", nurse.Overview)
	require.Len(t, nurse.Steps, 2)
	assert.Equal(t, "#meds", nurse.Steps[1].Target)

	admin := catalog.GetTourConfig("admin")
	require.NotNil(t, admin)
	require.Len(t, admin.Steps, 1)
}

func TestCatalogProviderUnknownRole(t *testing.T) {
	log := logger.NewLogger(context.Background(), false)
	catalog, err := NewYamlTourCatalogProvider(log, writeCatalog(t, catalogFixture))
	require.NoError(t, err)

	assert.Nil(t, catalog.GetTourConfig("janitor"))
}

func TestCatalogProviderMissingFile(t *testing.T) {
	log := logger.NewLogger(context.Background(), false)
	_, err := NewYamlTourCatalogProvider(log, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestCatalogProviderInvalidYaml(t *testing.T) {
	log := logger.NewLogger(context.Background(), false)
	_, err := NewYamlTourCatalogProvider(log, writeCatalog(t, "tours: [broken"))
	require.Error(t, err)
}
