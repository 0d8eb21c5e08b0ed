package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/server/internal/middleware"
	"github.com/tripnest/server/internal/models"
	"github.com/tripnest/server/internal/services"
)

func CreateTransportation(t *services.TransportationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}
		if user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only admins can manage the transportation catalog"))
			return
		}

		var transport models.Transportation
		if err := c.ShouldBindJSON(&transport); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		created, err := t.CreateTransportation(c.Request.Context(), &transport)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Transportation created successfully"))
	}
}

func GetTransportation(t *services.TransportationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid transportation ID format"))
			return
		}

		transport, err := t.GetTransportation(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(transport, ""))
	}
}

func ListTransportations(t *services.TransportationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limitInt, offsetInt, ok := paginationParams(c)
		if !ok {
			return
		}

		items, total, err := t.ListTransportations(
			c.Request.Context(),
			c.Query("type"),
			c.Query("origin"),
			c.Query("destination"),
			offsetInt,
			limitInt,
		)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offsetInt / limitInt) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(items, page, limitInt, total))
	}
}
