package normalize

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var observed = time.Date(2024, 5, 10, 6, 0, 0, 0, time.UTC)

func newNormalizer(markup int64) *Normalizer {
	return New(DefaultPolicy(), decimal.NewFromInt(markup), observed)
}

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"R$ 12,90/kg":  "12.90",
		"R$ 1.234,56":  "1234.56",
		"1,234.56":     "1234.56",
		"19.90":        "19.90",
		"R$ 1.234":     "1234",
		"R$ 45,00 /un": "45",
		"7":            "7",
		"1.234.567":    "1234567",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := ParsePrice(in)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(want)), "got %s want %s", got, want)
		})
	}
}

func TestParsePriceRejects(t *testing.T) {
	rejected := []string{
		"", "R$", "consulte", "R$ -5,00", "-R$ 5,00", "/kg 12",
		"De R$ 12,90 Por R$ 9,90/kg",
		"2 x R$ 10,00",
		"Cx 12 un R$ 45,00",
	}
	for _, in := range rejected {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePrice(in)
			assert.Error(t, err)
		})
	}
}

func TestPolicyAvailability(t *testing.T) {
	p := NewPolicy([]string{"resfriado", "CONGELADO", "em estoque"}, []string{"ESGOTADO"})

	assert.Equal(t, catalog.InStock, p.Availability("Resfriado"))
	assert.Equal(t, catalog.InStock, p.Availability("  produto CONGELADO - 1kg"))
	assert.Equal(t, catalog.InStock, p.Availability("Em  Estoque"))
	assert.Equal(t, catalog.OutOfStock, p.Availability("CONGELADO ESGOTADO"))
	assert.Equal(t, catalog.OutOfStock, p.Availability("INDISPONIVEL"))
	assert.Equal(t, catalog.OutOfStock, p.Availability(""))
	// token must match whole words
	assert.Equal(t, catalog.OutOfStock, p.Availability("DESCONGELADO"))
}

func TestNormalize(t *testing.T) {
	n := newNormalizer(60)

	item, err := n.Normalize(0, catalog.RawRecord{
		Category:  " Bovinos ",
		SKU:       " 100234 ",
		Name:      "Picanha   Bovina\n Resfriada",
		PriceText: "R$ 19,90/kg",
		BadgeText: "RESFRIADO",
		ImageURL:  "https://portal.example/img/100234.jpg?v=2",
		SourceURL: "https://portal.example/p/100234",
	})
	require.NoError(t, err)

	assert.Equal(t, "100234", item.SKU)
	assert.Equal(t, "Picanha Bovina Resfriada", item.Name)
	assert.Equal(t, "Bovinos", item.Category)
	assert.Equal(t, "19.9", item.CostPrice.String())
	assert.Equal(t, "31.84", item.ResalePrice.String())
	assert.Equal(t, catalog.InStock, item.Availability)
	assert.Equal(t, observed, item.ObservedAt)
}

func TestNormalizeRejections(t *testing.T) {
	valid := catalog.RawRecord{SKU: "1", Name: "Fraldinha", PriceText: "10,00"}

	cases := []struct {
		name   string
		mutate func(r *catalog.RawRecord)
		markup int64
		want   catalog.RejectReason
	}{
		{"blank sku", func(r *catalog.RawRecord) { r.SKU = "  " }, 60, catalog.MissingIdentity},
		{"blank name", func(r *catalog.RawRecord) { r.Name = "\t" }, 60, catalog.MissingName},
		{"bad price", func(r *catalog.RawRecord) { r.PriceText = "sob consulta" }, 60, catalog.UnparsablePrice},
		{"promo price pair", func(r *catalog.RawRecord) { r.PriceText = "De R$ 12,90 Por R$ 9,90/kg" }, 60, catalog.UnparsablePrice},
		{"negative markup", func(r *catalog.RawRecord) {}, -1, catalog.InvalidMarkup},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := valid
			tc.mutate(&raw)

			_, err := newNormalizer(tc.markup).Normalize(3, raw)
			var extraction *catalog.ExtractionError
			require.True(t, errors.As(err, &extraction))
			assert.Equal(t, tc.want, extraction.Reason)
			assert.Equal(t, 3, extraction.Index)
		})
	}
}

func TestAllPreservesOrder(t *testing.T) {
	var records []catalog.RawRecord
	for i := 0; i < 200; i++ {
		price := fmt.Sprintf("%d,50", i)
		if i%7 == 0 {
			price = "indisponível"
		}
		records = append(records, catalog.RawRecord{
			SKU:       fmt.Sprintf("SKU-%03d", i),
			Name:      fmt.Sprintf("Produto %d", i),
			PriceText: price,
			BadgeText: "CONGELADO",
		})
	}

	res, err := newNormalizer(60).All(context.Background(), records, 8)
	require.NoError(t, err)

	require.Len(t, res.Rejections, 29)
	require.Len(t, res.Items, 171)
	for i := 1; i < len(res.Items); i++ {
		assert.Less(t, res.Items[i-1].SKU, res.Items[i].SKU)
	}
	for i := 1; i < len(res.Rejections); i++ {
		assert.Less(t, res.Rejections[i-1].Index, res.Rejections[i].Index)
	}
	assert.Equal(t, catalog.UnparsablePrice, res.Rejections[0].Reason)
}

func TestAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newNormalizer(60).All(ctx, []catalog.RawRecord{{SKU: "1", Name: "x", PriceText: "1"}}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
