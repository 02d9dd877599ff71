package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yourname/northstar/internal"
	"github.com/yourname/northstar/internal/response"
	"github.com/yourname/northstar/internal/service"
)

func ListObjectives(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		objectives, err := app.Objectives().ListObjectives(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"objectives": objectives})
	}
}

func PostObjective(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.ObjectiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateObjectiveRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, objectiveValidationMessage(err))
			return
		}

		obj, err := service.CreateObjective(c.Request.Context(), app.Objectives(), user, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"objective": obj})
	}
}

// objectiveValidationMessage points at the part of the payload that
// failed: the objective itself or a nested pillar, metric or ritual.
func objectiveValidationMessage(err error) string {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		for _, fe := range fields {
			switch {
			case strings.Contains(fe.Namespace(), "Pillars"):
				return "Each pillar requires a name"
			case strings.Contains(fe.Namespace(), "Metrics"):
				return "Each metric requires a name"
			case strings.Contains(fe.Namespace(), "Rituals"):
				return "Each ritual requires a name"
			}
		}
	}
	return "Name and category are required"
}

func GetObjective(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		obj, err := app.Objectives().GetObjective(c.Request.Context(), c.Param("id"), user.ID)
		if err != nil {
			HandleStoreError(c, app.Logger(), err, "Objective not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"objective": obj})
	}
}

func PatchObjective(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var patch internal.ObjectivePatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}

		obj, err := app.Objectives().UpdateObjective(c.Request.Context(), c.Param("id"), user.ID, patch)
		if err != nil {
			HandleStoreError(c, app.Logger(), err, "Objective not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"objective": obj})
	}
}

func DeleteObjective(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		if err := app.Objectives().DeleteObjective(c.Request.Context(), c.Param("id"), user.ID); err != nil {
			HandleStoreError(c, app.Logger(), err, "Objective not found")
			return
		}
		c.JSON(http.StatusOK, response.Success())
	}
}
