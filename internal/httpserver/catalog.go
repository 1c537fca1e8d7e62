package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	productrepo "greenhaven/internal/repository/product"

	"github.com/gin-gonic/gin"
)

func listProductsHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := productrepo.ListFilter{
			Search:   c.Query("search"),
			SortBy:   c.Query("sort"),
			InStock:  c.Query("inStock") == "true",
			Featured: c.Query("featured") == "true",
		}
		if v := c.Query("category"); v != "" {
			filter.CategoryIDs = splitCSV(v)
		}
		if v := c.Query("minPrice"); v != "" {
			cents, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				badRequest(c, "minPrice must be an integer amount of cents")
				return
			}
			filter.MinPriceCents = &cents
		}
		if v := c.Query("maxPrice"); v != "" {
			cents, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				badRequest(c, "maxPrice must be an integer amount of cents")
				return
			}
			filter.MaxPriceCents = &cents
		}
		filter.Page, _ = strconv.Atoi(c.Query("page"))
		filter.Limit, _ = strconv.Atoi(c.Query("limit"))

		result, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func getProductHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": p})
	}
}

func listCategoriesHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.ListCategories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
