package services

import (
	"casthub_backend/internal/repositories"
	"casthub_backend/internal/store"
)

// ServiceContainer - контейнер сервисов для инициализации в app
type ServiceContainer struct {
	RoleService        *RoleService
	ApplicationService *ApplicationService
}

func NewServiceContainer(st store.Store) *ServiceContainer {
	roleRepo := repositories.NewRoleRepository(st)
	appRepo := repositories.NewApplicationRepository(st)

	return &ServiceContainer{
		RoleService:        NewRoleService(roleRepo, appRepo),
		ApplicationService: NewApplicationService(appRepo, roleRepo),
	}
}
