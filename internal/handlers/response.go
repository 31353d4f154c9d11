package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_management/internal/models"
)

// Envelope is the uniform response wrapper. Data is dropped from error
// responses.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{
		Success: false,
		Message: message,
	})
}

func searchSuccess(c echo.Context, products []models.Product) error {
	var message string
	switch {
	case len(products) < 1:
		message = "There are no products on the database"
	case len(products) > 1:
		message = fmt.Sprintf("Total of %d products retrieved successfully", len(products))
	default:
		message = "Product retrieved successfully"
	}

	if products == nil {
		products = []models.Product{}
	}

	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    products,
	})
}
