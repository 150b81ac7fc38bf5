package services

import (
	"context"
	"strings"
	"time"

	"casthub_backend/internal/auth"
	"casthub_backend/internal/logger"
	"casthub_backend/internal/models"
	"casthub_backend/internal/query"
	"casthub_backend/internal/repositories"
	"casthub_backend/internal/services/dto"
	"casthub_backend/internal/store"
	"casthub_backend/pkg/apperrors"

	"github.com/google/uuid"
)

type ApplicationService struct {
	appRepo  *repositories.ApplicationRepository
	roleRepo *repositories.RoleRepository
}

func NewApplicationService(appRepo *repositories.ApplicationRepository, roleRepo *repositories.RoleRepository) *ApplicationService {
	return &ApplicationService{
		appRepo:  appRepo,
		roleRepo: roleRepo,
	}
}

// SubmitApplication создает pending-отклик на открытую роль и в той же
// транзакции увеличивает счетчик откликов роли. Один актер не может
// держать больше одного активного отклика на роль.
func (s *ApplicationService) SubmitApplication(ctx context.Context, identity auth.Identity, roleID string, req *dto.CreateApplicationRequest) (*models.Application, error) {
	if err := auth.RequireRole(identity, models.UserRoleActor); err != nil {
		return nil, err
	}

	if details := validateApplicationContent(req); len(details) > 0 {
		return nil, apperrors.ValidationError(details)
	}

	now := time.Now()
	app := &models.Application{
		ID:           uuid.New().String(),
		RoleID:       roleID,
		ActorID:      identity.ID,
		Status:       models.ApplicationStatusPending,
		CoverLetter:  req.CoverLetter,
		ResumeFile:   req.ResumeFile,
		ResumeURL:    req.ResumeURL,
		Availability: req.Availability,
		SubmittedAt:  now,
		LastUpdated:  now,
	}

	err := s.appRepo.Store().Update(ctx, func(tx store.Tx) error {
		role, err := repositories.GetRoleTx(tx, roleID)
		if err != nil {
			return err
		}
		if !role.IsOpen(now) {
			return apperrors.ErrRoleClosed
		}

		existing, err := repositories.ListApplicationsTx(tx)
		if err != nil {
			return err
		}
		for _, other := range existing {
			if other.RoleID == roleID && other.ActorID == identity.ID && other.IsActive() {
				return apperrors.ErrDuplicateApplication
			}
		}

		if err := repositories.PutApplicationTx(tx, app); err != nil {
			return err
		}
		role.ApplicationCount++
		return repositories.PutRoleTx(tx, role)
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	logger.CtxInfo(ctx, "application submitted", "application_id", app.ID, "role_id", roleID, "actor_id", identity.ID)
	return app, nil
}

// TransitionStatus выполняет переход по машине статусов (таблица в models).
// Сначала проверяется легальность перехода, затем владение: запрещенный
// переход возвращает INVALID_TRANSITION даже владельцу.
func (s *ApplicationService) TransitionStatus(ctx context.Context, identity auth.Identity, applicationID string, newStatus models.ApplicationStatus) (*models.Application, error) {
	var updated *models.Application
	err := s.appRepo.Store().Update(ctx, func(tx store.Tx) error {
		app, err := repositories.GetApplicationTx(tx, applicationID)
		if err != nil {
			return err
		}

		requiredRole, ok := models.CanTransition(app.Status, newStatus)
		if !ok {
			return apperrors.ErrInvalidTransition(string(app.Status), string(newStatus))
		}

		switch requiredRole {
		case models.UserRoleActor:
			if err := auth.RequireActorOwner(identity, app.ActorID); err != nil {
				return err
			}
		case models.UserRoleDirector:
			role, err := repositories.GetRoleTx(tx, app.RoleID)
			if err != nil {
				return err
			}
			if err := auth.RequireDirectorOwner(identity, role.DirectorID); err != nil {
				return err
			}
		}

		app.Status = newStatus
		app.LastUpdated = time.Now()
		updated = app
		return repositories.PutApplicationTx(tx, app)
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	logger.CtxInfo(ctx, "application status changed", "application_id", applicationID, "status", string(newStatus))
	return updated, nil
}

// GetApplication доступен актеру-владельцу и режиссеру роли.
func (s *ApplicationService) GetApplication(ctx context.Context, identity auth.Identity, applicationID string) (*query.ApplicationItem, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	role, err := s.roleRepo.GetByID(ctx, app.RoleID)
	if err != nil && !apperrors.Is(err, store.ErrNotFound) {
		return nil, mapStoreError(err)
	}

	isOwner := identity.Role == models.UserRoleActor && identity.ID == app.ActorID
	isDirector := role != nil && identity.Role == models.UserRoleDirector && identity.ID == role.DirectorID
	if !identity.Valid() || (!isOwner && !isDirector) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	return &query.ApplicationItem{Application: app, Role: role}, nil
}

// ListActorApplications - собственные отклики актера с ролями.
func (s *ApplicationService) ListActorApplications(ctx context.Context, identity auth.Identity, q dto.ApplicationListQuery) ([]*query.ApplicationItem, error) {
	if err := auth.RequireRole(identity, models.UserRoleActor); err != nil {
		return nil, err
	}

	apps, err := s.appRepo.ListByActor(ctx, identity.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildItems(ctx, apps, nil, q)
}

// ListDirectorApplications - отклики по всем ролям режиссера.
func (s *ApplicationService) ListDirectorApplications(ctx context.Context, identity auth.Identity, q dto.ApplicationListQuery) ([]*query.ApplicationItem, error) {
	if err := auth.RequireRole(identity, models.UserRoleDirector); err != nil {
		return nil, err
	}

	roles, err := s.roleRepo.List(ctx, repositories.RoleQuery{DirectorID: identity.ID, Status: query.StatusAll})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	owned := make(map[string]*models.Role, len(roles))
	for _, role := range roles {
		owned[role.ID] = role
	}

	apps, err := s.appRepo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	filtered := make([]*models.Application, 0, len(apps))
	for _, app := range apps {
		if _, ok := owned[app.RoleID]; ok {
			filtered = append(filtered, app)
		}
	}

	return s.buildItems(ctx, filtered, owned, q)
}

// ListRoleApplications - отклики на конкретную роль, только владельцу.
func (s *ApplicationService) ListRoleApplications(ctx context.Context, identity auth.Identity, roleID string, q dto.ApplicationListQuery) ([]*query.ApplicationItem, error) {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if err := auth.RequireDirectorOwner(identity, role.DirectorID); err != nil {
		return nil, err
	}

	apps, err := s.appRepo.ListByRole(ctx, roleID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildItems(ctx, apps, map[string]*models.Role{role.ID: role}, q)
}

// UpdateContent - правка содержимого отклика актером, только в статусе pending.
func (s *ApplicationService) UpdateContent(ctx context.Context, identity auth.Identity, applicationID string, req *dto.UpdateApplicationContentRequest) (*models.Application, error) {
	var updated *models.Application
	err := s.appRepo.Store().Update(ctx, func(tx store.Tx) error {
		app, err := repositories.GetApplicationTx(tx, applicationID)
		if err != nil {
			return err
		}
		if err := auth.RequireActorOwner(identity, app.ActorID); err != nil {
			return err
		}
		if app.Status != models.ApplicationStatusPending {
			return apperrors.ErrApplicationNotEditable
		}

		if req.CoverLetter != nil {
			app.CoverLetter = *req.CoverLetter
		}
		if req.Availability != nil {
			app.Availability = *req.Availability
		}
		if req.ResumeFile != nil {
			app.ResumeFile = *req.ResumeFile
		}
		if req.ResumeURL != nil {
			app.ResumeURL = *req.ResumeURL
		}

		if details := validateApplicationContent(&dto.CreateApplicationRequest{
			CoverLetter:  app.CoverLetter,
			Availability: app.Availability,
			ResumeFile:   app.ResumeFile,
			ResumeURL:    app.ResumeURL,
		}); len(details) > 0 {
			return apperrors.ValidationError(details)
		}

		app.LastUpdated = time.Now()
		updated = app
		return repositories.PutApplicationTx(tx, app)
	})
	if err != nil {
		return nil, mapStoreError(err)
	}
	return updated, nil
}

// UpdateNotes - заметка режиссера на отклике по своей роли.
func (s *ApplicationService) UpdateNotes(ctx context.Context, identity auth.Identity, applicationID, notes string) (*models.Application, error) {
	var updated *models.Application
	err := s.appRepo.Store().Update(ctx, func(tx store.Tx) error {
		app, err := repositories.GetApplicationTx(tx, applicationID)
		if err != nil {
			return err
		}
		role, err := repositories.GetRoleTx(tx, app.RoleID)
		if err != nil {
			return err
		}
		if err := auth.RequireDirectorOwner(identity, role.DirectorID); err != nil {
			return err
		}

		app.Notes = notes
		app.LastUpdated = time.Now()
		updated = app
		return repositories.PutApplicationTx(tx, app)
	})
	if err != nil {
		return nil, mapStoreError(err)
	}
	return updated, nil
}

// DeleteApplication - жесткое удаление собственного отклика актером.
// Счетчик откликов роли уменьшается в той же транзакции.
func (s *ApplicationService) DeleteApplication(ctx context.Context, identity auth.Identity, applicationID string) error {
	err := s.appRepo.Store().Update(ctx, func(tx store.Tx) error {
		app, err := repositories.GetApplicationTx(tx, applicationID)
		if err != nil {
			return err
		}
		if err := auth.RequireActorOwner(identity, app.ActorID); err != nil {
			return err
		}

		if err := repositories.DeleteApplicationTx(tx, applicationID); err != nil {
			return err
		}

		role, err := repositories.GetRoleTx(tx, app.RoleID)
		if err != nil {
			if apperrors.Is(err, store.ErrNotFound) {
				return nil // роль уже удалена, счетчик корректировать негде
			}
			return err
		}
		if role.ApplicationCount > 0 {
			role.ApplicationCount--
		}
		return repositories.PutRoleTx(tx, role)
	})
	if err != nil {
		return mapStoreError(err)
	}

	logger.CtxInfo(ctx, "application deleted", "application_id", applicationID)
	return nil
}

// GetRoleStats - сводка статусов откликов по роли для ее режиссера.
func (s *ApplicationService) GetRoleStats(ctx context.Context, identity auth.Identity, roleID string) (*dto.ApplicationStats, error) {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if err := auth.RequireDirectorOwner(identity, role.DirectorID); err != nil {
		return nil, err
	}

	apps, err := s.appRepo.ListByRole(ctx, roleID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	stats := &dto.ApplicationStats{
		Total:    len(apps),
		ByStatus: map[models.ApplicationStatus]int{},
	}
	for _, app := range apps {
		stats.ByStatus[app.Status]++
	}
	return stats, nil
}

// --- helpers ---

// buildItems присоединяет роли, фильтрует по статусу, сортирует и
// нарезает страницу. roles может быть nil - тогда роли добираются из стора.
func (s *ApplicationService) buildItems(ctx context.Context, apps []*models.Application, roles map[string]*models.Role, q dto.ApplicationListQuery) ([]*query.ApplicationItem, error) {
	if roles == nil {
		roles = map[string]*models.Role{}
	}

	items := make([]*query.ApplicationItem, 0, len(apps))
	for _, app := range apps {
		if !query.MatchesStatus(string(app.Status), q.Status) {
			continue
		}
		role, ok := roles[app.RoleID]
		if !ok {
			fetched, err := s.roleRepo.GetByID(ctx, app.RoleID)
			if err != nil {
				if !apperrors.Is(err, store.ErrNotFound) {
					return nil, apperrors.InternalError(err)
				}
				fetched = nil // роль удалена, отклик показываем без нее
			}
			roles[app.RoleID] = fetched
			role = fetched
		}
		items = append(items, &query.ApplicationItem{Application: app, Role: role})
	}

	query.SortApplications(items, query.Sort(q.Sort))

	start, end := query.PageBounds(len(items), q.Page, q.Limit)
	return items[start:end], nil
}

// validateApplicationContent: cover letter и availability обязательны,
// резюме - ровно в одной форме (файл или ссылка).
func validateApplicationContent(req *dto.CreateApplicationRequest) map[string]string {
	details := map[string]string{}
	if strings.TrimSpace(req.CoverLetter) == "" {
		details["cover_letter"] = "is required"
	}
	if strings.TrimSpace(req.Availability) == "" {
		details["availability"] = "is required"
	}
	hasFile := strings.TrimSpace(req.ResumeFile) != ""
	hasURL := strings.TrimSpace(req.ResumeURL) != ""
	if hasFile == hasURL {
		details["resume"] = "exactly one of resume_file or resume_url is required"
	}
	return details
}
