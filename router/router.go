package router

import (
	"net/http"
	_ "user-management-api/docs"
	"user-management-api/handler"
	"user-management-api/model"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewRouter wires every route. Routes under /users are restricted to
// administrators and managers; /me accepts any authenticated caller.
func NewRouter(userHandler *handler.UserHandler, resolver handler.IdentityResolver) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	mux.Handle("POST /register", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("POST /login", handler.ErrorHandlingMiddleware(userHandler.Login))

	authenticated := handler.AuthMiddleware(resolver)
	staffOnly := handler.RequireRoles(model.RoleAdmin, model.RoleManager)
	protect := func(h http.Handler) http.Handler {
		return authenticated(staffOnly(h))
	}

	mux.Handle("GET /me", authenticated(handler.ErrorHandlingMiddleware(userHandler.Me)))

	mux.Handle("GET /users", protect(handler.ErrorHandlingMiddleware(userHandler.ListUsers)))
	mux.Handle("POST /users", protect(handler.ErrorHandlingMiddleware(userHandler.CreateUser)))
	mux.Handle("GET /users/{id}", protect(handler.ErrorHandlingMiddleware(userHandler.GetUser)))
	mux.Handle("PUT /users/{id}", protect(handler.ErrorHandlingMiddleware(userHandler.UpdateUser)))
	mux.Handle("DELETE /users/{id}", protect(handler.ErrorHandlingMiddleware(userHandler.DeleteUser)))

	return handler.LoggingMiddleware(mux)
}
