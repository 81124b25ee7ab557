package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	productdomain "github.com/smallbiznis/crm/internal/product/domain"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

func (s *Server) CreateProduct(c *gin.Context) {
	var req productdomain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mutationFailed(c, ErrInvalidRequest)
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), req)
	if err != nil {
		mutationFailed(c, err)
		return
	}

	mutationOK(c, "Product created successfully.", resp)
}

// RestockLowStockProducts increments every product under the low-stock
// threshold and reports the updated set.
func (s *Server) RestockLowStockProducts(c *gin.Context) {
	result, err := s.productSvc.RestockLowStock(c.Request.Context())
	if err != nil {
		mutationFailed(c, err)
		return
	}

	message := "No products below stock threshold."
	if result.Count > 0 {
		message = fmt.Sprintf("Restocked %d low-stock products.", result.Count)
	}
	c.JSON(http.StatusOK, mutationResult{
		Success: true,
		Message: message,
		Data:    result.Products,
		Count:   &result.Count,
	})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		pagination.Pagination
		OrderBy  string `form:"order_by"`
		Name     string `form:"name"`
		PriceGte string `form:"price_gte"`
		PriceLte string `form:"price_lte"`
		StockGte string `form:"stock_gte"`
		StockLte string `form:"stock_lte"`
		LowStock string `form:"low_stock"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	priceMin, err := parseOptionalDecimal(query.PriceGte)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	priceMax, err := parseOptionalDecimal(query.PriceLte)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	stockMin, err := parseOptionalInt(query.StockGte)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	stockMax, err := parseOptionalInt(query.StockLte)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	lowStock, err := parseOptionalBool(query.LowStock)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListProductRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		OrderBy:   strings.TrimSpace(query.OrderBy),
		Filter: productdomain.ProductFilter{
			Name:     strings.TrimSpace(query.Name),
			PriceMin: priceMin,
			PriceMax: priceMax,
			StockMin: stockMin,
			StockMax: stockMax,
			LowStock: lowStock,
		},
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.productSvc.GetByID(c.Request.Context(), productdomain.GetProductRequest{
		ID: id,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
