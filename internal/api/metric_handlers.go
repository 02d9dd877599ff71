package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/northstar/internal/service"
)

func ListMetricEntries(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		metric, err := app.Metrics().GetMetric(c.Request.Context(), c.Param("id"), user.ID)
		if err != nil {
			HandleStoreError(c, app.Logger(), err, "Metric not found")
			return
		}

		entries, err := app.Metrics().ListMetricEntries(c.Request.Context(), metric.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

func PostMetricEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.MetricEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateMetricEntryRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Value is required")
			return
		}

		metric, err := app.Metrics().GetMetric(c.Request.Context(), c.Param("id"), user.ID)
		if err != nil {
			HandleStoreError(c, app.Logger(), err, "Metric not found")
			return
		}

		entry, err := service.RecordMetricEntry(c.Request.Context(), app.Metrics(), metric, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"entry": entry})
	}
}
