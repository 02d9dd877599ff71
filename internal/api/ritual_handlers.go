package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/northstar/internal/service"
)

func PostRitualCompletion(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		ritual, err := app.Rituals().GetRitual(c.Request.Context(), c.Param("id"), user.ID)
		if err != nil {
			HandleStoreError(c, app.Logger(), err, "Ritual not found")
			return
		}

		var req service.CompletionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}

		completion, streak, err := service.CompleteRitual(c.Request.Context(), app.Rituals(), ritual, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"completion": completion, "streak": streak})
	}
}
