package handlers

import (
	"casthub_backend/internal/services"
	"casthub_backend/internal/validator"
)

// AppHandlers - контейнер готовых хэндлеров для регистрации маршрутов
type AppHandlers struct {
	RoleHandler        *RoleHandler
	ApplicationHandler *ApplicationHandler
}

func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		RoleHandler:        NewRoleHandler(base, container.RoleService),
		ApplicationHandler: NewApplicationHandler(base, container.ApplicationService),
	}
}
