package services_test

import (
	"context"
	"testing"
	"time"

	"casthub_backend/internal/models"
	"casthub_backend/internal/query"
	"casthub_backend/internal/services/dto"
	"casthub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestApplicationService_Submit - отклик создается в статусе pending,
// счетчик роли инкрементируется в той же транзакции
func TestApplicationService_Submit(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	role, err := c.RoleService.CreateRole(ctx, director1, validRoleRequest("Lead"))
	require.NoError(t, err)

	app, err := c.ApplicationService.SubmitApplication(ctx, actor1, role.ID, validApplicationRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, app.ID)
	assert.Equal(t, role.ID, app.RoleID)
	assert.Equal(t, "A1", app.ActorID)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.False(t, app.SubmittedAt.IsZero())

	got, err := c.RoleService.GetRole(ctx, role.ID, "D1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.ApplicationCount)
}

func TestApplicationService_SubmitValidation(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	role, err := c.RoleService.CreateRole(ctx, director1, validRoleRequest("Lead"))
	require.NoError(t, err)

	cases := []struct {
		name string
		req  *dto.CreateApplicationRequest
	}{
		{"без сопроводительного письма", &dto.CreateApplicationRequest{
			Availability: "weekdays",
			ResumeURL:    "https://example.com/r.pdf",
		}},
		{"без доступности", &dto.CreateApplicationRequest{
			CoverLetter: "hi",
			ResumeURL:   "https://example.com/r.pdf",
		}},
		{"без резюме", &dto.CreateApplicationRequest{
			CoverLetter:  "hi",
			Availability: "weekdays",
		}},
		{"оба варианта резюме сразу", &dto.CreateApplicationRequest{
			CoverLetter:  "hi",
			Availability: "weekdays",
			ResumeFile:   "resume.pdf",
			ResumeURL:    "https://example.com/r.pdf",
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := c.ApplicationService.SubmitApplication(ctx, actor2, role.ID, tc.req)
			assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
		})
	}

	// Счетчик не сдвинулся ни одной неудачной попыткой
	got, err := c.RoleService.GetRole(ctx, role.ID, "D1")
	require.NoError(t, err)
	assert.Zero(t, got.ApplicationCount)
}

func TestApplicationService_SubmitRequiresActor(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	role, err := c.RoleService.CreateRole(ctx, director1, validRoleRequest("Lead"))
	require.NoError(t, err)

	_, err = c.ApplicationService.SubmitApplication(ctx, director2, role.ID, validApplicationRequest())
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

// TestApplicationService_Duplicate - второй активный отклик на ту же роль
// отклоняется; после отзыва первого можно подать заново
func TestApplicationService_Duplicate(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	role, err := c.RoleService.CreateRole(ctx, director1, validRoleRequest("Lead"))
	require.NoError(t, err)

	app, err := c.ApplicationService.SubmitApplication(ctx, actor1, role.ID, validApplicationRequest())
	require.NoError(t, err)

	_, err = c.ApplicationService.SubmitApplication(ctx, actor1, role.ID, validApplicationRequest())
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))

	// Другому актеру дубликат не мешает
	_, err = c.ApplicationService.SubmitApplication(ctx, actor2, role.ID, validApplicationRequest())
	require.NoError(t, err)

	// Отзыв делает отклик терминальным - повторная подача разрешена
	_, err = c.ApplicationService.TransitionStatus(ctx, actor1, app.ID, models.ApplicationStatusWithdrawn)
	require.NoError(t, err)

	_, err = c.ApplicationService.SubmitApplication(ctx, actor1, role.ID, validApplicationRequest())
	require.NoError(t, err)
}

// TestApplicationService_TransitionChain - pending -> shortlisted -> accepted;
// откат из терминального статуса невозможен
func TestApplicationService_TransitionChain(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	role, err := c.RoleService.CreateRole(ctx, director1, validRoleRequest("Lead"))
	require.NoError(t, err)
	app, err := c.ApplicationService.SubmitApplication(ctx, actor1, role.ID, validApplicationRequest())
	require.NoError(t, err)

	shortlisted, err := c.ApplicationService.TransitionStatus(ctx, director1, app.ID, models.ApplicationStatusShortlisted)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusShortlisted, shortlisted.Status)

	accepted, err := c.ApplicationService.TransitionStatus(ctx, director1, app.ID, models.ApplicationStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusAccepted, accepted.Status)
	assert.True(t, accepted.LastUpdated.After(app.SubmittedAt) || accepted.LastUpdated.Equal(app.SubmittedAt))

	_, err = c.ApplicationService.TransitionStatus(ctx, director1, app.ID, models.ApplicationStatusPending)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
}

// Легальность перехода проверяется раньше владения: отзыв принятого
// отклика самим актером - именно InvalidTransition, а не Forbidden
func TestApplicationService_WithdrawAcceptedIsInvalidTransition(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	role, err := c.RoleService.CreateRole(ctx, director1, validRoleRequest("Lead"))
	require.NoError(t, err)
	app, err := c.ApplicationService.SubmitApplication(ctx, actor1, role.ID, validApplicationRequest())
	require.NoError(t, err)
	_, err = c.ApplicationService.TransitionStatus(ctx, director1, app.ID, models.ApplicationStatusAccepted)
	require.NoError(t, err)

	_, err = c.ApplicationService.TransitionStatus(ctx, actor1, app.ID, models.ApplicationStatusWithdrawn)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.CodeOf(err))
}

func TestApplicationService_TransitionOwnership(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	role, err := c.RoleService.CreateRole(ctx, director1, validRoleRequest("Lead"))
	require.NoError(t, err)
	app, err := c.ApplicationService.SubmitApplication(ctx, actor1, role.ID, validApplicationRequest())
	require.NoError(t, err)

	// Актер не двигает отклик вперед
	_, err = c.ApplicationService.TransitionStatus(ctx, actor1, app.ID, models.ApplicationStatusShortlisted)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	// Чужой режиссер не двигает отклик по не своей роли
	_, err = c.ApplicationService.TransitionStatus(ctx, director2, app.ID, models.ApplicationStatusShortlisted)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	// Режиссер не отзывает отклик за актера
	_, err = c.ApplicationService.TransitionStatus(ctx, director1, app.ID, models.ApplicationStatusWithdrawn)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	// После всех отказов статус не изменился
	item, err := c.ApplicationService.GetApplication(ctx, actor1, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, item.Application.Status)
}

// TestApplicationService_UpdateContent - правка разрешена владельцу
// и только в статусе pending
func TestApplicationService_UpdateContent(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	role, err := c.RoleService.CreateRole(ctx, director1, validRoleRequest("Lead"))
	require.NoError(t, err)
	app, err := c.ApplicationService.SubmitApplication(ctx, actor1, role.ID, validApplicationRequest())
	require.NoError(t, err)

	letter := "Обновленное письмо"
	updated, err := c.ApplicationService.UpdateContent(ctx, actor1, app.ID, &dto.UpdateApplicationContentRequest{
		CoverLetter: &letter,
	})
	require.NoError(t, err)
	assert.Equal(t, "Обновленное письмо", updated.CoverLetter)
	assert.Equal(t, "weekdays", updated.Availability) // нетронутое поле

	// Чужой актер
	_, err = c.ApplicationService.UpdateContent(ctx, actor2, app.ID, &dto.UpdateApplicationContentRequest{
		CoverLetter: &letter,
	})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	// Патч не может оставить отклик без резюме
	empty := ""
	_, err = c.ApplicationService.UpdateContent(ctx, actor1, app.ID, &dto.UpdateApplicationContentRequest{
		ResumeURL: &empty,
	})
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))

	// После выхода из pending содержимое заморожено
	_, err = c.ApplicationService.TransitionStatus(ctx, director1, app.ID, models.ApplicationStatusShortlisted)
	require.NoError(t, err)

	_, err = c.ApplicationService.UpdateContent(ctx, actor1, app.ID, &dto.UpdateApplicationContentRequest{
		CoverLetter: &letter,
	})
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
}

func TestApplicationService_GetVisibility(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	role, err := c.RoleService.CreateRole(ctx, director1, validRoleRequest("Lead"))
	require.NoError(t, err)
	app, err := c.ApplicationService.SubmitApplication(ctx, actor1, role.ID, validApplicationRequest())
	require.NoError(t, err)

	// Актер-владелец
	item, err := c.ApplicationService.GetApplication(ctx, actor1, app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, item.Application.ID)
	require.NotNil(t, item.Role)
	assert.Equal(t, role.ID, item.Role.ID)

	// Режиссер роли
	_, err = c.ApplicationService.GetApplication(ctx, director1, app.ID)
	require.NoError(t, err)

	// Посторонние
	_, err = c.ApplicationService.GetApplication(ctx, actor2, app.ID)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
	_, err = c.ApplicationService.GetApplication(ctx, director2, app.ID)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

// TestApplicationService_DirectorInbox - входящие отклики режиссера:
// только по его ролям, фильтр по статусу, сортировка по дедлайну роли
func TestApplicationService_DirectorInbox(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	near := validRoleRequest("Near Deadline")
	near.Deadline = time.Now().AddDate(0, 0, 7)
	far := validRoleRequest("Far Deadline")
	far.Deadline = time.Now().AddDate(0, 2, 0)
	foreign := validRoleRequest("Foreign")

	nearRole, err := c.RoleService.CreateRole(ctx, director1, near)
	require.NoError(t, err)
	farRole, err := c.RoleService.CreateRole(ctx, director1, far)
	require.NoError(t, err)
	foreignRole, err := c.RoleService.CreateRole(ctx, director2, foreign)
	require.NoError(t, err)

	appFar, err := c.ApplicationService.SubmitApplication(ctx, actor1, farRole.ID, validApplicationRequest())
	require.NoError(t, err)
	_, err = c.ApplicationService.SubmitApplication(ctx, actor1, nearRole.ID, validApplicationRequest())
	require.NoError(t, err)
	_, err = c.ApplicationService.SubmitApplication(ctx, actor2, farRole.ID, validApplicationRequest())
	require.NoError(t, err)
	_, err = c.ApplicationService.SubmitApplication(ctx, actor1, foreignRole.ID, validApplicationRequest())
	require.NoError(t, err)

	// Один отклик уходит в shortlisted и выпадает из pending-фильтра
	_, err = c.ApplicationService.TransitionStatus(ctx, director1, appFar.ID, models.ApplicationStatusShortlisted)
	require.NoError(t, err)

	items, err := c.ApplicationService.ListDirectorApplications(ctx, director1, dto.ApplicationListQuery{
		Status: string(models.ApplicationStatusPending),
		Sort:   string(query.SortDeadline),
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Near Deadline", items[0].Role.Title)
	assert.Equal(t, "Far Deadline", items[1].Role.Title)
	for _, it := range items {
		assert.Equal(t, models.ApplicationStatusPending, it.Application.Status)
	}

	// Без фильтра видны все три отклика по ролям D1, но не по чужой роли
	items, err = c.ApplicationService.ListDirectorApplications(ctx, director1, dto.ApplicationListQuery{Status: query.StatusAll})
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestApplicationService_ActorList(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	role1, err := c.RoleService.CreateRole(ctx, director1, validRoleRequest("First"))
	require.NoError(t, err)
	role2, err := c.RoleService.CreateRole(ctx, director2, validRoleRequest("Second"))
	require.NoError(t, err)

	_, err = c.ApplicationService.SubmitApplication(ctx, actor1, role1.ID, validApplicationRequest())
	require.NoError(t, err)
	_, err = c.ApplicationService.SubmitApplication(ctx, actor1, role2.ID, validApplicationRequest())
	require.NoError(t, err)
	_, err = c.ApplicationService.SubmitApplication(ctx, actor2, role1.ID, validApplicationRequest())
	require.NoError(t, err)

	items, err := c.ApplicationService.ListActorApplications(ctx, actor1, dto.ApplicationListQuery{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, "A1", it.Application.ActorID)
		require.NotNil(t, it.Role)
	}
}

// TestApplicationService_DeleteDecrementsCounter - удаление отклика
// возвращает счетчик роли назад
func TestApplicationService_DeleteDecrementsCounter(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	role, err := c.RoleService.CreateRole(ctx, director1, validRoleRequest("Lead"))
	require.NoError(t, err)

	app1, err := c.ApplicationService.SubmitApplication(ctx, actor1, role.ID, validApplicationRequest())
	require.NoError(t, err)
	_, err = c.ApplicationService.SubmitApplication(ctx, actor2, role.ID, validApplicationRequest())
	require.NoError(t, err)

	got, err := c.RoleService.GetRole(ctx, role.ID, "D1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.ApplicationCount)

	// Чужой актер удалить не может
	err = c.ApplicationService.DeleteApplication(ctx, actor2, app1.ID)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	require.NoError(t, c.ApplicationService.DeleteApplication(ctx, actor1, app1.ID))

	got, err = c.RoleService.GetRole(ctx, role.ID, "D1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.ApplicationCount)

	_, err = c.ApplicationService.GetApplication(ctx, actor1, app1.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestApplicationService_Notes(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	role, err := c.RoleService.CreateRole(ctx, director1, validRoleRequest("Lead"))
	require.NoError(t, err)
	app, err := c.ApplicationService.SubmitApplication(ctx, actor1, role.ID, validApplicationRequest())
	require.NoError(t, err)

	updated, err := c.ApplicationService.UpdateNotes(ctx, director1, app.ID, "хороший кандидат")
	require.NoError(t, err)
	assert.Equal(t, "хороший кандидат", updated.Notes)

	// Ни актер, ни чужой режиссер заметки не трогают
	_, err = c.ApplicationService.UpdateNotes(ctx, actor1, app.ID, "x")
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
	_, err = c.ApplicationService.UpdateNotes(ctx, director2, app.ID, "x")
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestApplicationService_RoleStats(t *testing.T) {
	t.Parallel()

	c := newTestContainer(t)
	ctx := context.Background()

	role, err := c.RoleService.CreateRole(ctx, director1, validRoleRequest("Lead"))
	require.NoError(t, err)

	a1, err := c.ApplicationService.SubmitApplication(ctx, actor1, role.ID, validApplicationRequest())
	require.NoError(t, err)
	a2, err := c.ApplicationService.SubmitApplication(ctx, actor2, role.ID, validApplicationRequest())
	require.NoError(t, err)
	_, err = c.ApplicationService.TransitionStatus(ctx, director1, a1.ID, models.ApplicationStatusShortlisted)
	require.NoError(t, err)
	_, err = c.ApplicationService.TransitionStatus(ctx, director1, a2.ID, models.ApplicationStatusRejected)
	require.NoError(t, err)

	stats, err := c.ApplicationService.GetRoleStats(ctx, director1, role.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[models.ApplicationStatusShortlisted])
	assert.Equal(t, 1, stats.ByStatus[models.ApplicationStatusRejected])
	assert.Zero(t, stats.ByStatus[models.ApplicationStatusPending])

	// Статистика доступна только владельцу роли
	_, err = c.ApplicationService.GetRoleStats(ctx, director2, role.ID)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}
