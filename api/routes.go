package main

import (
	"net/http"
)

func composeRoutes(app *application) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/healthcheck", app.healthCheckHandler)

	mux.HandleFunc("POST /api/auth/register", app.registerUserHandler)
	mux.HandleFunc("POST /api/auth/login", app.loginUserHandler)
	mux.HandleFunc("GET /api/auth/me", app.requireAuth(app.getCurrentUserHandler))

	mux.HandleFunc("GET /api/tasks", app.requireAuth(app.getTasksHandler))
	mux.HandleFunc("POST /api/tasks", app.requireAuth(app.createTaskHandler))
	mux.HandleFunc("PUT /api/tasks/{id}", app.requireAuth(app.updateTaskHandler))
	mux.HandleFunc("PATCH /api/tasks/{id}/toggle", app.requireAuth(app.toggleTaskHandler))
	mux.HandleFunc("DELETE /api/tasks/{id}", app.requireAuth(app.deleteTaskHandler))

	var handler http.Handler = mux
	if len(app.config.cors.trustedOrigins) > 0 {
		handler = app.enableCORS(handler)
	}
	if app.config.limiter.enabled {
		handler = app.rateLimit(handler)
	}
	return handler
}
