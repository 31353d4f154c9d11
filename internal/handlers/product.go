package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_management/internal/logging"
	"github.com/Skotchmaster/product_management/internal/middleware/auth"
	"github.com/Skotchmaster/product_management/internal/models"
	"github.com/Skotchmaster/product_management/internal/mykafka"
	"github.com/Skotchmaster/product_management/internal/repo"
)

type ProductHandler struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

type CreateProductRequest struct {
	Name        string   `json:"name"        validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"required,min=2,max=100"`
	Price       *float64 `json:"price"       validate:"required,gte=0,lte=999999"`
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func callerName(c echo.Context) string {
	if p, ok := auth.PrincipalFrom(c); ok {
		return p.Username
	}
	return ""
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Repo.SearchAll(ctx)
	if err != nil {
		l.Error("get_products_failed", "status", 500, "reason", "cannot read products from db", "error", err)
		return fail(c, http.StatusInternalServerError, "cannot read products from db")
	}

	l.Info("get_products_success", "count", len(items))
	return searchSuccess(c, items)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	idParam := c.Param("id")
	id, err := strconv.Atoi(idParam)
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not integer")
		return fail(c, http.StatusBadRequest, fmt.Sprintf("'%s' is not a valid product id", idParam))
	}

	product, err := h.Repo.SearchByID(ctx, id, callerName(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_product_failed", "status", 404, "id", id)
			return fail(c, http.StatusNotFound, fmt.Sprintf("Product with ID '%d' was not found.", id))
		}
		l.Error("get_product_failed", "status", 500, "reason", "cannot read product from db", "error", err)
		return fail(c, http.StatusInternalServerError, "cannot read product from db")
	}

	l.Info("get_product_success", "id", id)
	return searchSuccess(c, []models.Product{*product})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "validation", "error", err)
		return fail(c, http.StatusBadRequest, err.Error())
	}

	now := time.Now()
	prod := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		CreatedAt:   &now,
		CreatedBy:   callerName(c),
	}

	created, err := h.Repo.Insert(ctx, &prod)
	if err != nil {
		l.Error("create_product_failed", "status", 500, "reason", "cannot add product to db", "error", err)
		return fail(c, http.StatusInternalServerError, "cannot add product to db")
	}

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": created.ID,
		"name":      created.Name,
	})

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/products/%d", created.ID))
	l.Info("create_product_success", "id", created.ID)
	return c.JSON(http.StatusCreated, Envelope{
		Success: true,
		Message: fmt.Sprintf("Product registered successfully with ID '%d'", created.ID),
		Data:    created,
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	idParam := c.Param("id")
	id, err := strconv.Atoi(idParam)
	if err != nil {
		l.Warn("delete_product_failed", "status", 400, "reason", "id is not integer")
		return fail(c, http.StatusBadRequest, fmt.Sprintf("'%s' is not a valid product id", idParam))
	}

	if err := h.Repo.DeleteByID(ctx, id); err != nil {
		switch {
		case errors.Is(err, repo.ErrRestricted):
			l.Warn("delete_product_failed", "status", 403, "id", id)
			return fail(c, http.StatusForbidden,
				fmt.Sprintf("Product with ID '%d' is restricted and cannot be deleted", id))
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("delete_product_failed", "status", 404, "id", id)
			return fail(c, http.StatusNotFound, fmt.Sprintf("Product with ID '%d' was not found.", id))
		default:
			l.Error("delete_product_failed", "status", 500, "reason", "cannot delete product from db", "error", err)
			return fail(c, http.StatusInternalServerError, "cannot delete product from db")
		}
	}

	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	l.Info("delete_product_success", "id", id)
	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: fmt.Sprintf("Product with ID '%d' deleted successfully", id),
	})
}
