package handlers

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_management/internal/models"
)

func seedProduct(t *testing.T, env *testEnv, id int, name string) models.Product {
	t.Helper()
	now := time.Now()
	p := models.Product{
		ID:          id,
		Name:        name,
		Description: "seeded product",
		Price:       9.99,
		CreatedAt:   &now,
		CreatedBy:   "seed",
	}
	require.NoError(t, env.DB.Create(&p).Error)
	return p
}

func TestGetProductsEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products", nil)
	setPrincipal(c, "user", "User")
	require.NoError(t, env.P.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Envelope
	require.NoError(t, decode(rec, &resp))
	require.True(t, resp.Success)
	require.Equal(t, "There are no products on the database", resp.Message)
}

func TestGetProductsPluralization(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(t, env, 1, "first")
	seedProduct(t, env, 2, "second")

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products", nil)
	setPrincipal(c, "user", "User")
	require.NoError(t, env.P.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Message string           `json:"message"`
		Data    []models.Product `json:"data"`
	}
	require.NoError(t, decode(rec, &resp))
	require.Equal(t, "Total of 2 products retrieved successfully", resp.Message)
	require.Len(t, resp.Data, 2)
}

func TestGetProductByIDUpdatesAudit(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(t, env, 1, "audited")

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setPrincipal(c, "user", "User")
	require.NoError(t, env.P.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string           `json:"message"`
		Data    []models.Product `json:"data"`
	}
	require.NoError(t, decode(rec, &resp))
	require.Equal(t, "Product retrieved successfully", resp.Message)
	require.Len(t, resp.Data, 1)
	require.Equal(t, "user", resp.Data[0].LastAccessedBy)
	require.NotNil(t, resp.Data[0].LastAccessedAt)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, 1).Error)
	require.Equal(t, "user", stored.LastAccessedBy)
	require.NotNil(t, stored.LastAccessedAt)
}

func TestGetProductBadID(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products/abc", nil)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	setPrincipal(c, "user", "User")
	require.NoError(t, env.P.GetProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Envelope
	require.NoError(t, decode(rec, &resp))
	require.Equal(t, "'abc' is not a valid product id", resp.Message)
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products/9999", nil)
	c.SetParamNames("id")
	c.SetParamValues("9999")
	setPrincipal(c, "user", "User")
	require.NoError(t, env.P.GetProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp Envelope
	require.NoError(t, decode(rec, &resp))
	require.False(t, resp.Success)
	require.Contains(t, resp.Message, "9999")
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/products", map[string]any{
		"name":        "widget",
		"description": "a fine widget",
		"price":       19.5,
	})
	setPrincipal(c, "admin", "Admin")
	require.NoError(t, env.P.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "/api/products/1", rec.Header().Get("Location"))

	var resp struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Data    models.Product `json:"data"`
	}
	require.NoError(t, decode(rec, &resp))
	require.True(t, resp.Success)
	require.Equal(t, 1, resp.Data.ID)
	require.Equal(t, "widget", resp.Data.Name)
	require.Equal(t, "admin", resp.Data.CreatedBy)
	require.NotNil(t, resp.Data.CreatedAt)
}

func TestCreateProductAssignsMaxPlusOne(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(t, env, 41, "existing")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/products", map[string]any{
		"name":        "widget",
		"description": "a fine widget",
		"price":       1.0,
	})
	setPrincipal(c, "admin", "Admin")
	require.NoError(t, env.P.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data models.Product `json:"data"`
	}
	require.NoError(t, decode(rec, &resp))
	require.Equal(t, 42, resp.Data.ID)
}

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name    string
		body    map[string]any
		wantMsg string
	}{
		{
			name:    "short name",
			body:    map[string]any{"name": "a", "description": "valid description", "price": 1.0},
			wantMsg: "Name must be at least 2 characters long",
		},
		{
			name:    "short description",
			body:    map[string]any{"name": "valid", "description": "b", "price": 1.0},
			wantMsg: "Description must be at least 2 characters long",
		},
		{
			name:    "price too large",
			body:    map[string]any{"name": "valid", "description": "valid description", "price": 1000000.0},
			wantMsg: "Price must be between 0 and 999,999",
		},
		{
			name:    "negative price",
			body:    map[string]any{"name": "valid", "description": "valid description", "price": -1.0},
			wantMsg: "Price must be between 0 and 999,999",
		},
		{
			name:    "missing price",
			body:    map[string]any{"name": "valid", "description": "valid description"},
			wantMsg: "Price is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, c := env.doJSONRequest(http.MethodPost, "/api/products", tc.body)
			setPrincipal(c, "admin", "Admin")
			require.NoError(t, env.P.CreateProduct(c))
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp Envelope
			require.NoError(t, decode(rec, &resp))
			require.False(t, resp.Success)
			require.Contains(t, resp.Message, tc.wantMsg)
		})
	}
}

func TestCreateProductNonNumericPrice(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/products", map[string]any{
		"name":        "widget",
		"description": "a fine widget",
		"price":       "not-a-number",
	})
	setPrincipal(c, "admin", "Admin")
	require.NoError(t, env.P.CreateProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(t, env, 1, "doomed")

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setPrincipal(c, "admin", "Admin")
	require.NoError(t, env.P.DeleteProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec2, c2 := env.doJSONRequest(http.MethodGet, "/api/products/1", nil)
	c2.SetParamNames("id")
	c2.SetParamValues("1")
	setPrincipal(c2, "admin", "Admin")
	require.NoError(t, env.P.GetProduct(c2))
	require.Equal(t, http.StatusNotFound, rec2.Code)
}

func TestDeleteProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/products/9999", nil)
	c.SetParamNames("id")
	c.SetParamValues("9999")
	setPrincipal(c, "admin", "Admin")
	require.NoError(t, env.P.DeleteProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp Envelope
	require.NoError(t, decode(rec, &resp))
	require.Contains(t, resp.Message, "9999")
}

func TestDeleteRestrictedProduct(t *testing.T) {
	env := newTestEnv(t)

	for _, id := range []int{101, 102, 103} {
		seedProduct(t, env, id, "restricted")

		rec, c := env.doJSONRequest(http.MethodDelete, "/api/products/101", nil)
		c.SetParamNames("id")
		c.SetParamValues(strconv.Itoa(id))
		setPrincipal(c, "admin", "Admin")
		require.NoError(t, env.P.DeleteProduct(c))
		require.Equal(t, http.StatusForbidden, rec.Code)

		var stored models.Product
		require.NoError(t, env.DB.First(&stored, id).Error)
	}
}
