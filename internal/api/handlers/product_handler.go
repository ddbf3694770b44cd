package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Birdie-1/stock-forcasting-with-react-fastapi/backend-go/internal/repository"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	products repository.ProductRepository
	sales    repository.SalesRepository
}

func NewProductHandler(products repository.ProductRepository, sales repository.SalesRepository) *ProductHandler {
	return &ProductHandler{products: products, sales: sales}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))

	products, err := h.products.ListProducts(c.Request.Context(), search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    len(products),
	})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetSalesHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	// Return 404 rather than an empty list for unknown products
	if _, err := h.products.GetProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product", "details": err.Error()})
		return
	}

	sales, err := h.sales.GetSalesHistory(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch sales history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales": sales,
		"total": len(sales),
	})
}
