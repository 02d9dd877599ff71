package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/northstar/internal"
	"github.com/yourname/northstar/internal/response"
	"github.com/yourname/northstar/internal/service"
)

func ListTasks(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var filter internal.TaskFilter
		if date := c.Query("date"); date != "" {
			day, err := time.ParseInLocation("2006-01-02", date, time.Local)
			if err != nil {
				HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
				return
			}
			filter.Day = &day
		}
		if objectiveID := c.Query("objectiveId"); objectiveID != "" {
			filter.ObjectiveID = &objectiveID
		}

		tasks, err := app.Tasks().ListTasks(c.Request.Context(), user.ID, filter)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"tasks": tasks})
	}
}

func PostTask(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.TaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateTaskRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Title, objectiveId, and scheduledAt are required")
			return
		}

		task, err := service.CreateTask(c.Request.Context(), app.Tasks(), app.Objectives(), user, &req)
		if err != nil {
			HandleStoreError(c, app.Logger(), err, "Objective not found")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"task": task})
	}
}

func PatchTask(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var patch internal.TaskPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}

		task, err := service.UpdateTask(c.Request.Context(), app.Tasks(), user, c.Param("id"), patch)
		if err != nil {
			HandleStoreError(c, app.Logger(), err, "Task not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"task": task})
	}
}

func DeleteTask(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		if err := app.Tasks().DeleteTask(c.Request.Context(), c.Param("id"), user.ID); err != nil {
			HandleStoreError(c, app.Logger(), err, "Task not found")
			return
		}
		c.JSON(http.StatusOK, response.Success())
	}
}
