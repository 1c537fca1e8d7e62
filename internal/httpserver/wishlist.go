package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func listWishlistHandler(svc WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func addWishlistHandler(svc WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			ProductID string `json:"productId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "productId required")
			return
		}
		item, err := svc.Add(c.Request.Context(), currentUser(c).ID, in.ProductID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"item": item})
	}
}

func checkWishlistHandler(svc WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		inWishlist, err := svc.Contains(c.Request.Context(), currentUser(c).ID, c.Param("productId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"inWishlist": inWishlist})
	}
}

func removeWishlistHandler(svc WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Remove(c.Request.Context(), currentUser(c).ID, c.Param("productId")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
