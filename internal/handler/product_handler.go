package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/store"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// ListProducts handles retrieving products with optional filtering.
// Only products in stock are listed unless in_stock_only=false.
func (h *Handler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	filter := store.ProductFilter{
		Category:    c.QueryParam("category"),
		Search:      c.QueryParam("search"),
		InStockOnly: true,
		Limit:       defaultPageSize,
	}
	if v := c.QueryParam("in_stock_only"); v != "" {
		inStockOnly, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "in_stock_only must be a boolean"})
		}
		filter.InStockOnly = inStockOnly
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxPageSize {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be between 1 and 500"})
		}
		filter.Limit = limit
	}
	if v := c.QueryParam("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "offset must be a non-negative integer"})
		}
		filter.Offset = offset
	}

	products, err := h.catalog.ListProducts(c.Request().Context(), filter)
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	log.Debug("Products listed",
		zap.Int("count", len(products)),
		zap.String("category", filter.Category),
		zap.Bool("in_stock_only", filter.InStockOnly))
	return c.JSON(http.StatusOK, products)
}

// GetProduct retrieves a product by SKU
func (h *Handler) GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	sku := c.Param("sku")

	product, err := h.catalog.GetProduct(c.Request().Context(), sku)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}
	if err != nil {
		log.Error("Failed to get product", zap.String("sku", sku), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve product"})
	}
	return c.JSON(http.StatusOK, product)
}

// ListCategories returns the categories with products in stock
func (h *Handler) ListCategories(c echo.Context) error {
	categories, err := h.catalog.Categories(c.Request().Context())
	if err != nil {
		logger.FromContext(c).Error("Failed to list categories", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve categories"})
	}
	return c.JSON(http.StatusOK, categories)
}
