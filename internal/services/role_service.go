package services

import (
	"context"
	"strings"
	"time"

	"casthub_backend/internal/auth"
	"casthub_backend/internal/logger"
	"casthub_backend/internal/models"
	"casthub_backend/internal/repositories"
	"casthub_backend/internal/services/dto"
	"casthub_backend/internal/store"
	"casthub_backend/pkg/apperrors"

	"github.com/google/uuid"
)

type RoleService struct {
	roleRepo *repositories.RoleRepository
	appRepo  *repositories.ApplicationRepository
}

func NewRoleService(roleRepo *repositories.RoleRepository, appRepo *repositories.ApplicationRepository) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		appRepo:  appRepo,
	}
}

// CreateRole публикует новую роль от имени режиссера.
// Роль создается открытой, с нулевыми счетчиками и серверным id.
func (s *RoleService) CreateRole(ctx context.Context, identity auth.Identity, req *dto.CreateRoleRequest) (*models.Role, error) {
	if err := auth.RequireRole(identity, models.UserRoleDirector); err != nil {
		return nil, err
	}

	if details := missingRoleFields(req); len(details) > 0 {
		return nil, apperrors.ValidationError(details)
	}

	role := &models.Role{
		ID:           uuid.New().String(),
		DirectorID:   identity.ID,
		Title:        req.Title,
		Genre:        req.Genre,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		Deadline:     req.Deadline,
		Budget:       req.Budget,
		CastSize:     req.CastSize,
		Duration:     req.Duration,
		Status:       models.RoleStatusOpen,
		IsFeatured:   req.IsFeatured,
		IsBoosted:    req.IsBoosted,
		PostedDate:   time.Now(),
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "role created", "role_id", role.ID, "director_id", identity.ID)
	return role, nil
}

// GetRole возвращает роль. Просмотр не-владельцем увеличивает счетчик
// просмотров; инкремент не влияет на результат чтения.
func (s *RoleService) GetRole(ctx context.Context, roleID, requesterID string) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	role.Status = role.EffectiveStatus(time.Now())

	if requesterID != role.DirectorID {
		go s.incrementViews(roleID)
	}

	return role, nil
}

func (s *RoleService) incrementViews(roleID string) {
	err := s.roleRepo.Update(context.Background(), roleID, func(role *models.Role) error {
		role.ViewCount++
		return nil
	})
	if err != nil {
		logger.Warn("failed to increment role views", "role_id", roleID, "error", err)
	}
}

// ListRoles - публичная выдача с фильтрами query engine.
func (s *RoleService) ListRoles(ctx context.Context, q repositories.RoleQuery) ([]*models.Role, error) {
	roles, err := s.roleRepo.List(ctx, q)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return roles, nil
}

// ListMyRoles - роли текущего режиссера
func (s *RoleService) ListMyRoles(ctx context.Context, identity auth.Identity, q repositories.RoleQuery) ([]*models.Role, error) {
	if err := auth.RequireRole(identity, models.UserRoleDirector); err != nil {
		return nil, err
	}
	q.DirectorID = identity.ID
	return s.ListRoles(ctx, q)
}

// UpdateRole применяет частичный патч. Счетчики и дата публикации не трогаются.
func (s *RoleService) UpdateRole(ctx context.Context, identity auth.Identity, roleID string, req *dto.UpdateRoleRequest) (*models.Role, error) {
	var updated *models.Role
	err := s.roleRepo.Store().Update(ctx, func(tx store.Tx) error {
		role, err := repositories.GetRoleTx(tx, roleID)
		if err != nil {
			return err
		}
		if err := auth.RequireDirectorOwner(identity, role.DirectorID); err != nil {
			return err
		}

		applyRolePatch(role, req)

		if details := missingRoleFieldsAfterPatch(role); len(details) > 0 {
			return apperrors.ValidationError(details)
		}

		updated = role
		return repositories.PutRoleTx(tx, role)
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	logger.CtxInfo(ctx, "role updated", "role_id", roleID)
	return updated, nil
}

// CloseRole явно закрывает роль; идемпотентно.
func (s *RoleService) CloseRole(ctx context.Context, identity auth.Identity, roleID string) error {
	err := s.roleRepo.Store().Update(ctx, func(tx store.Tx) error {
		role, err := repositories.GetRoleTx(tx, roleID)
		if err != nil {
			return err
		}
		if err := auth.RequireDirectorOwner(identity, role.DirectorID); err != nil {
			return err
		}
		role.Status = models.RoleStatusClosed
		return repositories.PutRoleTx(tx, role)
	})
	if err != nil {
		return mapStoreError(err)
	}

	logger.CtxInfo(ctx, "role closed", "role_id", roleID)
	return nil
}

// DeleteRole удаляет роль. Политика: удаление блокируется, пока по роли
// есть активные отклики (pending/shortlisted); терминальные отклики
// остаются как история и удалению не мешают.
func (s *RoleService) DeleteRole(ctx context.Context, identity auth.Identity, roleID string) error {
	err := s.roleRepo.Store().Update(ctx, func(tx store.Tx) error {
		role, err := repositories.GetRoleTx(tx, roleID)
		if err != nil {
			return err
		}
		if err := auth.RequireDirectorOwner(identity, role.DirectorID); err != nil {
			return err
		}

		apps, err := repositories.ListApplicationsTx(tx)
		if err != nil {
			return err
		}
		for _, app := range apps {
			if app.RoleID == roleID && app.IsActive() {
				return apperrors.ErrRoleHasActiveApplications
			}
		}

		return repositories.DeleteRoleTx(tx, roleID)
	})
	if err != nil {
		return mapStoreError(err)
	}

	logger.CtxInfo(ctx, "role deleted", "role_id", roleID)
	return nil
}

// --- helpers ---

func missingRoleFields(req *dto.CreateRoleRequest) map[string]string {
	details := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		details["title"] = "is required"
	}
	if strings.TrimSpace(req.Genre) == "" {
		details["genre"] = "is required"
	}
	if strings.TrimSpace(req.Description) == "" {
		details["description"] = "is required"
	}
	if strings.TrimSpace(req.Location) == "" {
		details["location"] = "is required"
	}
	if req.Deadline.IsZero() {
		details["deadline"] = "is required"
	}
	if req.CastSize < 0 {
		details["cast_size"] = "must be zero or greater"
	}
	return details
}

// missingRoleFieldsAfterPatch не дает патчу опустошить обязательные поля
func missingRoleFieldsAfterPatch(role *models.Role) map[string]string {
	details := map[string]string{}
	if strings.TrimSpace(role.Title) == "" {
		details["title"] = "is required"
	}
	if strings.TrimSpace(role.Genre) == "" {
		details["genre"] = "is required"
	}
	if strings.TrimSpace(role.Description) == "" {
		details["description"] = "is required"
	}
	if strings.TrimSpace(role.Location) == "" {
		details["location"] = "is required"
	}
	if role.Deadline.IsZero() {
		details["deadline"] = "is required"
	}
	if role.CastSize < 0 {
		details["cast_size"] = "must be zero or greater"
	}
	return details
}

func applyRolePatch(role *models.Role, req *dto.UpdateRoleRequest) {
	if req.Title != nil {
		role.Title = *req.Title
	}
	if req.Genre != nil {
		role.Genre = *req.Genre
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Requirements != nil {
		role.Requirements = *req.Requirements
	}
	if req.Location != nil {
		role.Location = *req.Location
	}
	if req.Deadline != nil {
		role.Deadline = *req.Deadline
	}
	if req.Budget != nil {
		role.Budget = *req.Budget
	}
	if req.CastSize != nil {
		role.CastSize = *req.CastSize
	}
	if req.Duration != nil {
		role.Duration = *req.Duration
	}
	if req.IsFeatured != nil {
		role.IsFeatured = *req.IsFeatured
	}
	if req.IsBoosted != nil {
		role.IsBoosted = *req.IsBoosted
	}
}

// mapStoreError переводит ошибки стора в AppError; AppError проходит как есть.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return appErr
	}
	if apperrors.Is(err, store.ErrNotFound) {
		return apperrors.ErrNotFound(err)
	}
	if apperrors.Is(err, store.ErrTxConflict) {
		return apperrors.ErrConcurrentModification
	}
	return apperrors.InternalError(err)
}
