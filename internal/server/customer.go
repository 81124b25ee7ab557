package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/crm/internal/customer/domain"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"go.uber.org/zap"
)

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerdomain.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mutationFailed(c, ErrInvalidRequest)
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), req)
	if err != nil {
		mutationFailed(c, err)
		return
	}

	mutationOK(c, "Customer created successfully.", resp)
}

func (s *Server) BulkCreateCustomers(c *gin.Context) {
	var req struct {
		Input []customerdomain.CreateCustomerRequest `json:"input"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		mutationFailed(c, ErrInvalidRequest)
		return
	}

	result, err := s.customerSvc.BulkCreate(c.Request.Context(), req.Input)
	if err != nil {
		s.log.Error("bulk create customers", zap.Error(err))
		mutationFailed(c, err)
		return
	}

	count := len(result.Customers)
	c.JSON(http.StatusOK, mutationResult{
		Success: count > 0,
		Message: fmt.Sprintf("Created %d of %d customers.", count, len(req.Input)),
		Data:    result.Customers,
		Errors:  result.Errors,
		Count:   &count,
	})
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		OrderBy     string `form:"order_by"`
		Name        string `form:"name"`
		Email       string `form:"email"`
		Phone       string `form:"phone"`
		CreatedFrom string `form:"created_from"`
		CreatedTo   string `form:"created_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	createdFrom, err := parseOptionalTime(query.CreatedFrom, false)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	createdTo, err := parseOptionalTime(query.CreatedTo, true)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		OrderBy:   strings.TrimSpace(query.OrderBy),
		Filter: customerdomain.CustomerFilter{
			Name:        strings.TrimSpace(query.Name),
			Email:       strings.TrimSpace(query.Email),
			PhonePrefix: strings.TrimSpace(query.Phone),
			CreatedFrom: createdFrom,
			CreatedTo:   createdTo,
		},
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.customerSvc.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{
		ID: id,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
