package httpserver

import (
	"net/http"

	reviewsvc "greenhaven/internal/service/review"

	"github.com/gin-gonic/gin"
)

// Reviews are addressed by product slug so the public catalog URLs stay
// consistent; the slug is resolved before touching the review service.

func listReviewsHandler(catalog CatalogService, svc ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err)
			return
		}
		reviews, err := svc.ListByProduct(c.Request.Context(), p.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reviews": reviews})
	}
}

func createReviewHandler(catalog CatalogService, svc ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in reviewsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		p, err := catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err)
			return
		}
		review, err := svc.Create(c.Request.Context(), currentUser(c).ID, p.ID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"review": review})
	}
}
