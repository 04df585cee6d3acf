package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
)

const (
	stockListLimit = 10
	priceListLimit = 15
	timestampFmt   = "02/01/2006 15:04:05"
)

func successPayload(s catalog.Summary, at time.Time) Payload {
	title := "✅ Sincronização do Catálogo Concluída com Sucesso"
	status := "Todos os produtos do portal foram sincronizados com sucesso."
	if s.Status == catalog.StatusPartial {
		title = "⚠️ Sincronização do Catálogo Concluída com Falhas"
		status = fmt.Sprintf("%d registros rejeitados e %d produtos não gravados. Verifique os logs da execução %s.",
			len(s.Rejections)+len(s.Duplicates), s.Failed, s.RunID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Resumo da Sincronização\n\n**Data/Hora**: %s\n\n", at.Format(timestampFmt))
	b.WriteString("### Estatísticas\n\n")
	fmt.Fprintf(&b, "- **Produtos Encontrados**: %d\n", s.Found)
	fmt.Fprintf(&b, "- **Produtos Adicionados**: %d\n", s.Added)
	fmt.Fprintf(&b, "- **Produtos Atualizados**: %d\n", s.Updated)
	fmt.Fprintf(&b, "- **Produtos Indisponíveis**: %d\n", s.MarkedUnavailable)
	if len(s.EmptyCategories) > 0 {
		fmt.Fprintf(&b, "- **Categorias sem Produtos**: %s\n", strings.Join(s.EmptyCategories, ", "))
	}
	fmt.Fprintf(&b, "\n### Status\n\n%s\n", status)

	return Payload{
		Kind:  ScrapeSuccess,
		Title: title,
		Body:  b.String(),
		Data: map[string]interface{}{
			"run_id":             s.RunID,
			"status":             string(s.Status),
			"found":              s.Found,
			"added":              s.Added,
			"updated":            s.Updated,
			"marked_unavailable": s.MarkedUnavailable,
			"failed":             s.Failed,
			"rejected":           len(s.Rejections),
		},
	}
}

func failurePayload(s catalog.Summary, at time.Time) Payload {
	var b strings.Builder
	fmt.Fprintf(&b, "## Falha na Sincronização\n\n**Data/Hora**: %s\n\n", at.Format(timestampFmt))
	fmt.Fprintf(&b, "### Erro\n\n```\n%s\n```\n\n", s.Error)
	fmt.Fprintf(&b, "Execução interrompida na etapa **%s**.\n\n", s.HaltedAt)
	b.WriteString("### Ação Necessária\n\nPor favor, verifique os logs e execute a sincronização manualmente se necessário.\n")

	return Payload{
		Kind:  ScrapeFailure,
		Title: "❌ Erro na Sincronização do Catálogo",
		Body:  b.String(),
		Data: map[string]interface{}{
			"run_id":    s.RunID,
			"error":     s.Error,
			"halted_at": string(s.HaltedAt),
		},
	}
}

func stockPayload(s catalog.Summary, at time.Time) Payload {
	var b strings.Builder
	fmt.Fprintf(&b, "## Mudanças no Estoque\n\n**Data/Hora**: %s\n\n", at.Format(timestampFmt))
	writeStockList(&b, "❌ Produtos Fora de Estoque", s.NewlyUnavailable)
	writeStockList(&b, "✅ Produtos de Volta ao Estoque", s.NewlyAvailable)

	return Payload{
		Kind:  StockChange,
		Title: "📦 Alterações de Estoque Detectadas",
		Body:  b.String(),
		Data: map[string]interface{}{
			"out_of_stock":  s.NewlyUnavailable,
			"back_in_stock": s.NewlyAvailable,
		},
	}
}

func writeStockList(b *strings.Builder, heading string, changes []catalog.StockChange) {
	if len(changes) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s (%d)\n\n", heading, len(changes))
	for i, c := range changes {
		if i == stockListLimit {
			fmt.Fprintf(b, "\n*... e mais %d produtos*\n", len(changes)-stockListLimit)
			break
		}
		fmt.Fprintf(b, "- **%s** (SKU: %s)\n", c.Name, c.SKU)
	}
	b.WriteString("\n")
}

func pricePayload(s catalog.Summary, at time.Time) Payload {
	var b strings.Builder
	fmt.Fprintf(&b, "## Mudanças de Preço\n\n**Data/Hora**: %s\n\n", at.Format(timestampFmt))
	fmt.Fprintf(&b, "### Produtos com Alteração de Preço (%d)\n\n", len(s.PriceChanges))
	for i, c := range s.PriceChanges {
		if i == priceListLimit {
			fmt.Fprintf(&b, "\n*... e mais %d produtos*\n", len(s.PriceChanges)-priceListLimit)
			break
		}
		diff := c.NewPrice.Sub(c.OldPrice)
		arrow, sign := "📉", ""
		if diff.IsPositive() {
			arrow, sign = "📈", "+"
		}
		fmt.Fprintf(&b, "**%s** (SKU: %s)\n", c.Name, c.SKU)
		fmt.Fprintf(&b, "- Preço Anterior: R$ %s\n", c.OldPrice.StringFixed(2))
		fmt.Fprintf(&b, "- Preço Novo: R$ %s\n", c.NewPrice.StringFixed(2))
		fmt.Fprintf(&b, "- Variação: %s %sR$ %s (%s%s%%)\n\n", arrow, sign, diff.StringFixed(2), sign, c.DeltaPercent.StringFixed(1))
	}

	return Payload{
		Kind:  PriceChange,
		Title: "💰 Alterações de Preço Detectadas",
		Body:  b.String(),
		Data:  map[string]interface{}{"changes": s.PriceChanges},
	}
}

func lowStockPayload(s catalog.Summary, threshold int, at time.Time) Payload {
	var b strings.Builder
	fmt.Fprintf(&b, "## Estoque Baixo Detectado\n\n**Data/Hora**: %s\n\n", at.Format(timestampFmt))
	fmt.Fprintf(&b, "### Situação\n\nApenas **%d produtos** estão em estoque no portal (limite: %d).\n\n", s.InStockTotal, threshold)
	b.WriteString("### Ação Recomendada\n\n")
	b.WriteString("- Verificar o portal do fornecedor manualmente\n")
	b.WriteString("- Contatar o fornecedor se necessário\n")
	b.WriteString("- Atualizar os clientes sobre disponibilidade limitada\n")

	return Payload{
		Kind:  LowStock,
		Title: "⚠️ Alerta: Poucos Produtos em Estoque",
		Body:  b.String(),
		Data: map[string]interface{}{
			"in_stock":  s.InStockTotal,
			"threshold": threshold,
		},
	}
}
