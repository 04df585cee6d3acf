package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFile(t *testing.T) {
	src := JSONFile{Path: "testdata/records.json", Categories: []string{"Bovinos", "Pescados", "Combos"}}

	batch, err := src.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Records, 2)
	assert.Equal(t, "R$ 69,90/kg", batch.Records[0].PriceText)
	assert.Equal(t, []string{"Azeite", "Combos"}, batch.EmptyCategories)
}

func TestJSONFileArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"sku":"1","name":"Acém","price":"10,00"}]`), 0o644))

	batch, err := JSONFile{Path: path}.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.RawRecord{{SKU: "1", Name: "Acém", PriceText: "10,00"}}, batch.Records)
	assert.Empty(t, batch.EmptyCategories)
}

func TestJSONFileErrors(t *testing.T) {
	_, err := JSONFile{Path: "testdata/nope.json"}.Collect(context.Background())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"records": [`), 0o644))
	_, err = JSONFile{Path: path}.Collect(context.Background())
	assert.Error(t, err)
}

func TestHTMLDir(t *testing.T) {
	src := HTMLDir{Dir: "testdata/pages", Categories: []string{"Bovinos", "Vegetais"}}

	batch, err := src.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Records, 3)

	assert.Equal(t, catalog.RawRecord{
		Category:  "Bovinos",
		SKU:       "100234",
		Name:      "Picanha Bovina Resfriada",
		PriceText: "R$ 69,90/kg",
		BadgeText: "RESFRIADO",
		ImageURL:  "https://portal.example/media/100234.jpg?w=300",
		SourceURL: "https://portal.example/picanha-100234",
	}, batch.Records[0])

	assert.Equal(t, "100777", batch.Records[1].SKU)
	assert.Equal(t, "Fraldinha Congelada", batch.Records[1].Name)
	assert.Equal(t, "CONGELADO", batch.Records[1].BadgeText)
	assert.Equal(t, "https://portal.example/media/100777.png", batch.Records[1].ImageURL)

	assert.Equal(t, "consulte", batch.Records[2].PriceText)
	assert.Equal(t, []string{"Cordeiros", "Vegetais"}, batch.EmptyCategories)
}
