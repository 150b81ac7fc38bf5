package routes

import (
	"casthub_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers, // <-- Принимаем ГОТОВЫЕ хэндлеры
) {
	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.RoleHandler.RegisterRoutes(api)
		appHandlers.ApplicationHandler.RegisterRoutes(api)
	}
}
