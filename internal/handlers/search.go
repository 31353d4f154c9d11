package handlers

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_management/internal/logging"
	"github.com/Skotchmaster/product_management/internal/repo"
	"github.com/Skotchmaster/product_management/internal/service/search"
	"github.com/Skotchmaster/product_management/internal/util"
)

// SearchHandler queries Elasticsearch when a client is configured and falls
// back to a LIKE scan over the relational store otherwise.
type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
	Repo  *repo.GormRepo
}

func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search")

	q := c.QueryParam("q")
	if q == "" {
		return fail(c, http.StatusBadRequest, "query parameter 'q' is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	if h.ES != nil {
		total, products, err := search.Search(ctx, h.ES, h.Index, q, from, size)
		if err != nil {
			l.Error("search_failed", "status", 500, "backend", "elasticsearch", "error", err)
			return fail(c, http.StatusInternalServerError, "search error")
		}
		l.Info("search_success", "backend", "elasticsearch", "total", total)
		return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
	}

	total, products, err := h.Repo.SearchLike(ctx, q, from, size)
	if err != nil {
		l.Error("search_failed", "status", 500, "backend", "sql", "error", err)
		return fail(c, http.StatusInternalServerError, "search error")
	}
	l.Info("search_success", "backend", "sql", "total", total)
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}
