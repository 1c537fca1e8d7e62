package httpserver

import (
	"net/http"

	checkoutsvc "greenhaven/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

func checkoutHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkoutsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		o, err := svc.Checkout(c.Request.Context(), currentUser(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": o})
	}
}
