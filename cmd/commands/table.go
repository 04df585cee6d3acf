package commands

import (
	"os"
	"strings"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func renderSummary(s catalog.Summary) {
	t := newTable()
	t.SetTitle("Run " + s.RunID)
	t.AppendRows([]table.Row{
		{"Status", s.Status},
		{"Found", s.Found},
		{"Usable", s.Usable},
		{"Added", s.Added},
		{"Updated", s.Updated},
		{"Marked unavailable", s.MarkedUnavailable},
		{"Failed", s.Failed},
		{"Rejected", len(s.Rejections)},
		{"Duplicates", len(s.Duplicates)},
		{"Price changes", len(s.PriceChanges)},
		{"In stock", s.InStockTotal},
		{"Duration", s.Duration().Round(time.Millisecond)},
	})
	if s.HaltedAt != "" {
		t.AppendRow(table.Row{"Halted at", s.HaltedAt})
		t.AppendRow(table.Row{"Error", s.Error})
	}
	if len(s.EmptyCategories) > 0 {
		t.AppendRow(table.Row{"Empty categories", strings.Join(s.EmptyCategories, ", ")})
	}
	if s.AssetFailures > 0 {
		t.AppendRow(table.Row{"Image failures", s.AssetFailures})
	}
	if s.NotifyError != "" {
		t.AppendRow(table.Row{"Notification error", s.NotifyError})
	}
	t.Render()

	if len(s.PriceChanges) > 0 {
		pc := newTable()
		pc.SetTitle("Price changes")
		pc.AppendHeader(table.Row{"SKU", "Name", "Old", "New", "Delta %"})
		for _, c := range s.PriceChanges {
			pc.AppendRow(table.Row{c.SKU, c.Name, c.OldPrice.StringFixed(2), c.NewPrice.StringFixed(2), c.DeltaPercent.StringFixed(2)})
		}
		pc.Render()
	}
}
