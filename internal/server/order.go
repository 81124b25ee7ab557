package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/smallbiznis/crm/internal/order/domain"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

func (s *Server) CreateOrder(c *gin.Context) {
	var req orderdomain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mutationFailed(c, ErrInvalidRequest)
		return
	}

	resp, err := s.orderSvc.Create(c.Request.Context(), req)
	if err != nil {
		mutationFailed(c, err)
		return
	}

	mutationOK(c, fmt.Sprintf("Order created successfully with total amount %s.", resp.TotalAmount.StringFixed(2)), resp)
}

func (s *Server) ListOrders(c *gin.Context) {
	var query struct {
		pagination.Pagination
		OrderBy       string `form:"order_by"`
		TotalGte      string `form:"total_amount_gte"`
		TotalLte      string `form:"total_amount_lte"`
		OrderDateGte  string `form:"order_date_gte"`
		OrderDateLte  string `form:"order_date_lte"`
		CustomerName  string `form:"customer_name"`
		CustomerEmail string `form:"customer_email"`
		ProductName   string `form:"product_name"`
		ProductID     string `form:"product_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	totalMin, err := parseOptionalDecimal(query.TotalGte)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	totalMax, err := parseOptionalDecimal(query.TotalLte)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	orderDateFrom, err := parseOptionalTime(query.OrderDateGte, false)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	orderDateTo, err := parseOptionalTime(query.OrderDateLte, true)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	productID, err := parseOptionalSnowflakeID(query.ProductID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.orderSvc.List(c.Request.Context(), orderdomain.ListOrderRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		OrderBy:   strings.TrimSpace(query.OrderBy),
		Filter: orderdomain.OrderFilter{
			TotalMin:      totalMin,
			TotalMax:      totalMax,
			OrderDateFrom: orderDateFrom,
			OrderDateTo:   orderDateTo,
			CustomerName:  strings.TrimSpace(query.CustomerName),
			CustomerEmail: strings.TrimSpace(query.CustomerEmail),
			ProductName:   strings.TrimSpace(query.ProductName),
			ProductID:     productID,
		},
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.orderSvc.GetByID(c.Request.Context(), orderdomain.GetOrderRequest{
		ID: id,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
