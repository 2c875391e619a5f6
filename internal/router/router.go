package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskforge/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes bypass the gateway.
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)

	// Everything below requires a verified bearer token.
	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.GetProfile))

	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.GET("/api/v1/tasks/getCount/{id}", authMiddleware(handlers.Task.GetCount))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	return r
}
