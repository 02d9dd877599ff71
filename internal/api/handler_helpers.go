package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/northstar/internal"
	"github.com/yourname/northstar/internal/response"
)

func currentUser(c *gin.Context) *internal.User {
	return c.MustGet("user").(*internal.User)
}

// HandleError writes the uniform error body. The underlying error is
// logged with the request ID but never leaks to the caller.
func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	if status >= http.StatusInternalServerError {
		logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	} else {
		logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
	}
	c.JSON(status, response.NewError(msg))
}

// HandleStoreError maps storage failures: a missing or foreign-owned
// row is a 404 with notFoundMsg, anything else a generic 500.
func HandleStoreError(c *gin.Context, logger internal.Logger, err error, notFoundMsg string) {
	if errors.Is(err, internal.ErrNotFound) {
		HandleError(c, logger, err, http.StatusNotFound, notFoundMsg)
		return
	}
	HandleError(c, logger, err, http.StatusInternalServerError, "Internal server error")
}
