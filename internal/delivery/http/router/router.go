// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler      *handler.AccountHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RequestIDMiddleware *middleware.RequestIDMiddleware
	LoggerMiddleware    *middleware.LoggerMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler      *handler.AccountHandler
	authMiddleware      *middleware.AuthMiddleware
	requestIDMiddleware *middleware.RequestIDMiddleware
	loggerMiddleware    *middleware.LoggerMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:      params.AccountHandler,
		authMiddleware:      params.AuthMiddleware,
		requestIDMiddleware: params.RequestIDMiddleware,
		loggerMiddleware:    params.LoggerMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestIDMiddleware.Process)
	e.Use(r.loggerMiddleware.Handle)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	accounts := e.Group("/accounts")
	{
		// Public account flows
		accounts.POST("", r.accountHandler.Register)
		accounts.POST("/login", r.accountHandler.Login)
		accounts.GET("/verify/:token", r.accountHandler.VerifyEmail)
		accounts.GET("", r.accountHandler.ListAccounts)
		accounts.POST("/password/forgot", r.accountHandler.ForgotPassword)
		accounts.POST("/password/reset", r.accountHandler.ResetPassword)

		// Deletion is destructive and restricted to administrators.
		accounts.DELETE("/:id", r.accountHandler.DeleteAccount,
			r.authMiddleware.Authenticate,
			r.authMiddleware.RequireRole(entity.RoleAdmin.String()),
		)
	}
}
