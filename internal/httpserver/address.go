package httpserver

import (
	"net/http"

	"greenhaven/internal/domain"
	addresssvc "greenhaven/internal/service/address"

	"github.com/gin-gonic/gin"
)

func listAddressesHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		addresses, err := svc.List(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if addresses == nil {
			addresses = []domain.Address{}
		}
		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

func createAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addresssvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		a, err := svc.Create(c.Request.Context(), currentUser(c).ID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"address": a})
	}
}

func updateAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addresssvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		a, err := svc.Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": a})
	}
}

func deleteAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
