package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/northstar/internal/response"
	"github.com/yourname/northstar/internal/service"
)

func PostWaitlist(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.WaitlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Email is required")
			return
		}
		if err := service.ValidateWaitlistRequest(&req); err != nil {
			msg := "Invalid email format"
			if req.Email == "" {
				msg = "Email is required"
			}
			HandleError(c, app.Logger(), err, http.StatusBadRequest, msg)
			return
		}

		if err := service.JoinWaitlist(c.Request.Context(), app.Waitlist(), &req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, response.Success())
	}
}
