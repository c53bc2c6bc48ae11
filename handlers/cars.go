package handlers

import (
	"net/http"

	"grotto/models"
	"grotto/services/inventory"
	"grotto/utils"

	"github.com/gin-gonic/gin"
)

// ListCarsHandler returns the full rental catalogue.
func ListCarsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cars": inventory.Catalogue})
}

// SearchCarsHandler filters the catalogue by the query in the request body.
func SearchCarsHandler(c *gin.Context) {
	var query models.CarQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid car query", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"cars": inventory.TopCars(query)})
}
