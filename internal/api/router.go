package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/northstar/internal/auth"
)

// NewRouter wires every route. The waitlist and landing page are
// public; everything else sits behind the session middleware.
func NewRouter(app App, provider auth.Provider) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())

	r.GET("/", RootPage())
	r.POST("/waitlist", PostWaitlist(app))

	authed := r.Group("/", auth.Middleware(provider))
	authed.GET("/objectives", ListObjectives(app))
	authed.POST("/objectives", PostObjective(app))
	authed.GET("/objectives/:id", GetObjective(app))
	authed.PATCH("/objectives/:id", PatchObjective(app))
	authed.DELETE("/objectives/:id", DeleteObjective(app))

	authed.GET("/metrics/:id/entries", ListMetricEntries(app))
	authed.POST("/metrics/:id/entries", PostMetricEntry(app))

	authed.POST("/rituals/:id/completions", PostRitualCompletion(app))

	authed.GET("/tasks", ListTasks(app))
	authed.POST("/tasks", PostTask(app))
	authed.PATCH("/tasks/:id", PatchTask(app))
	authed.DELETE("/tasks/:id", DeleteTask(app))

	return r
}
