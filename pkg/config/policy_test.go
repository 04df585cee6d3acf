package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPolicyDefaults(t *testing.T) {
	policy, err := LoadPolicy(filepath.Join(t.TempDir(), "catalog.json5"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), policy)
}

func TestLoadPolicyWithLocalOverride(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "catalog.json5")

	require.NoError(t, os.WriteFile(name, []byte(`{
		// badges shown on stocked products
		in_stock_tokens: ["RESFRIADO", "CONGELADO", "EM ESTOQUE"],
		categories: ["Bovinos"],
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.local.json5"), []byte(`{
		out_of_stock_tokens: ["ESGOTADO"],
		categories: ["Bovinos", "Pescados"],
	}`), 0o644))

	policy, err := LoadPolicy(name)
	require.NoError(t, err)
	assert.Equal(t, []string{"RESFRIADO", "CONGELADO", "EM ESTOQUE"}, policy.InStockTokens)
	assert.Equal(t, []string{"ESGOTADO"}, policy.OutOfStockTokens)
	assert.Equal(t, []string{"Bovinos", "Pescados"}, policy.Categories)
}

func TestLoadPolicyInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "catalog.json5")
	require.NoError(t, os.WriteFile(name, []byte(`{in_stock_tokens: [`), 0o644))

	_, err := LoadPolicy(name)
	assert.Error(t, err)
}

func TestLocalName(t *testing.T) {
	assert.Equal(t, "conf/catalog.local.json5", localName("conf/catalog.json5"))
}

func TestValidate(t *testing.T) {
	t.Setenv("SYNC_SOURCE_KIND", "xml")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SYNC_SOURCE_KIND", "html")
	t.Setenv("SYNC_MATERIAL_THRESHOLD", "2.5")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "2.5", cfg.Sync.MaterialThreshold.String())
	assert.Equal(t, 50, cfg.Sync.LowStockThreshold)
}
