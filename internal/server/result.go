package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/crm/internal/customer/domain"
	orderdomain "github.com/smallbiznis/crm/internal/order/domain"
	productdomain "github.com/smallbiznis/crm/internal/product/domain"
)

// mutationResult is the uniform envelope every mutation answers with. A
// failed mutation is still an HTTP 200; the failure lives in the envelope.
type mutationResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Count   *int     `json:"count,omitempty"`
}

func mutationOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, mutationResult{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func mutationFailed(c *gin.Context, err error) {
	c.JSON(http.StatusOK, mutationResult{
		Success: false,
		Message: mutationMessage(err),
	})
}

// mutationMessage renders a domain error as the human-readable message the
// envelope carries. Unexpected store errors stay opaque.
func mutationMessage(err error) string {
	switch err {
	case customerdomain.ErrInvalidName, customerdomain.ErrInvalidEmail:
		return "Name and email are required."
	case customerdomain.ErrEmailExists:
		return "Email already exists."
	case customerdomain.ErrInvalidPhone:
		return "Invalid phone format."
	case productdomain.ErrInvalidName:
		return "Name is required."
	case productdomain.ErrInvalidPrice:
		return "Price must be positive."
	case productdomain.ErrInvalidStock:
		return "Stock cannot be negative."
	case orderdomain.ErrInvalidCustomer:
		return "Invalid customer ID."
	case orderdomain.ErrNoProducts:
		return "At least one product is required."
	case orderdomain.ErrInvalidProducts:
		return "Invalid product IDs."
	case ErrInvalidRequest:
		return "Invalid request."
	default:
		return "An unexpected error occurred."
	}
}
