// Package handler serves the catalog admin API
package handler

import (
	"context"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/model"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Catalog is the read and settings side of the store
type Catalog interface {
	Ping(ctx context.Context) error
	ListProducts(ctx context.Context, filter store.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, sku string) (model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	ListRuns(ctx context.Context, limit int) ([]model.ScrapeLog, error)
	Settings(ctx context.Context) ([]model.Setting, error)
	SetMarkup(ctx context.Context, markup decimal.Decimal) (int, error)
}

// Runner starts a catalog sync
type Runner interface {
	Run(ctx context.Context) (catalog.Summary, error)
}

// Handler holds the admin API dependencies
type Handler struct {
	catalog Catalog
	runner  Runner
}

// New creates a Handler
func New(catalog Catalog, runner Runner) *Handler {
	return &Handler{catalog: catalog, runner: runner}
}

// Register mounts the admin routes on g
func (h *Handler) Register(g *echo.Group) {
	g.GET("/products", h.ListProducts)
	g.GET("/products/:sku", h.GetProduct)
	g.GET("/categories", h.ListCategories)

	g.GET("/runs", h.ListRuns)
	g.POST("/runs", h.TriggerRun)

	g.GET("/settings", h.ListSettings)
	g.PUT("/settings/markup", h.UpdateMarkup)
}
