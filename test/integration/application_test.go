package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"casthub_backend/internal/models"
	"casthub_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applicationBody() map[string]interface{} {
	return map[string]interface{}{
		"cover_letter": "Очень хочу эту роль",
		"availability": "weekdays",
		"resume_url":   "https://example.com/resume.pdf",
	}
}

func createRoleViaAPI(t *testing.T, ts *helpers.TestServer, token, title string) string {
	t.Helper()

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/roles", token, roleBody(title))
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created struct {
		Role models.Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &created))
	return created.Role.ID
}

// TestApplication_FullFlow - E2E: актер подает отклик, режиссер видит его
// во входящих, двигает по статусам, смотрит статистику
func TestApplication_FullFlow(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	directorToken := helpers.MintDirectorToken(t, "D1")
	actorToken := helpers.MintActorToken(t, "A1")

	roleID := createRoleViaAPI(t, ts, directorToken, "Lead")

	// Подача отклика (POST)
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/applications/roles/"+roleID, actorToken, applicationBody())
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Contains(t, bodyStr, "Application submitted successfully")
	assert.Contains(t, bodyStr, `"status":"pending"`)

	var submitted struct {
		Application models.Application `json:"application"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &submitted))
	appID := submitted.Application.ID

	// Счетчик откликов виден в публичной карточке роли
	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/roles/"+roleID, "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"application_count":1`)

	// Входящие режиссера
	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/applications/incoming?status=pending", directorToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, appID)
	assert.Contains(t, bodyStr, `"total":1`)

	// Шортлист
	res, bodyStr = ts.SendRequest(t, "PUT", "/api/v1/applications/"+appID+"/status", directorToken, map[string]interface{}{
		"status": "shortlisted",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"shortlisted"`)

	// Принятие
	res, bodyStr = ts.SendRequest(t, "PUT", "/api/v1/applications/"+appID+"/status", directorToken, map[string]interface{}{
		"status": "accepted",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"accepted"`)

	// Актер видит итоговый статус в своем списке
	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/applications/my", actorToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"accepted"`)

	// Статистика по роли
	res, bodyStr = ts.SendRequest(t, "GET", "/api/v1/applications/roles/"+roleID+"/stats", directorToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"total":1`)
	assert.Contains(t, bodyStr, `"accepted":1`)
}

// TestApplication_WithdrawFlow - актер правит pending-отклик и отзывает его
func TestApplication_WithdrawFlow(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	directorToken := helpers.MintDirectorToken(t, "D1")
	actorToken := helpers.MintActorToken(t, "A1")

	roleID := createRoleViaAPI(t, ts, directorToken, "Lead")

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/applications/roles/"+roleID, actorToken, applicationBody())
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var submitted struct {
		Application models.Application `json:"application"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &submitted))
	appID := submitted.Application.ID

	// Правка содержимого пока отклик pending
	res, bodyStr = ts.SendRequest(t, "PUT", "/api/v1/applications/"+appID, actorToken, map[string]interface{}{
		"cover_letter": "Обновленное письмо",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "Обновленное письмо")

	// Отзыв
	res, bodyStr = ts.SendRequest(t, "PUT", "/api/v1/applications/"+appID+"/status", actorToken, map[string]interface{}{
		"status": "withdrawn",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"withdrawn"`)

	// Отозванный отклик больше не редактируется
	res, _ = ts.SendRequest(t, "PUT", "/api/v1/applications/"+appID, actorToken, map[string]interface{}{
		"cover_letter": "Поздно",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

// TestApplication_StatusGuards - нелегальные переходы и чужие отклики
func TestApplication_StatusGuards(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	directorToken := helpers.MintDirectorToken(t, "D1")
	strangerToken := helpers.MintDirectorToken(t, "D2")
	actorToken := helpers.MintActorToken(t, "A1")

	roleID := createRoleViaAPI(t, ts, directorToken, "Lead")

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/applications/roles/"+roleID, actorToken, applicationBody())
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var submitted struct {
		Application models.Application `json:"application"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &submitted))
	appID := submitted.Application.ID

	// Чужой режиссер не двигает отклик
	res, _ = ts.SendRequest(t, "PUT", "/api/v1/applications/"+appID+"/status", strangerToken, map[string]interface{}{
		"status": "shortlisted",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Принимаем и пробуем откатить в pending
	res, _ = ts.SendRequest(t, "PUT", "/api/v1/applications/"+appID+"/status", directorToken, map[string]interface{}{
		"status": "accepted",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, bodyStr = ts.SendRequest(t, "PUT", "/api/v1/applications/"+appID+"/status", directorToken, map[string]interface{}{
		"status": "pending",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "INVALID_TRANSITION")

	// Отзыв принятого отклика актером - тоже нелегальный переход
	res, bodyStr = ts.SendRequest(t, "PUT", "/api/v1/applications/"+appID+"/status", actorToken, map[string]interface{}{
		"status": "withdrawn",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "INVALID_TRANSITION")
}

// TestApplication_DuplicateAndClosedRole - повторная подача и закрытая роль
func TestApplication_DuplicateAndClosedRole(t *testing.T) {
	t.Parallel()

	ts := helpers.NewTestServer(t)
	defer ts.Close()

	directorToken := helpers.MintDirectorToken(t, "D1")
	actorToken := helpers.MintActorToken(t, "A1")

	roleID := createRoleViaAPI(t, ts, directorToken, "Lead")

	res, _ := ts.SendRequest(t, "POST", "/api/v1/applications/roles/"+roleID, actorToken, applicationBody())
	require.Equal(t, http.StatusCreated, res.StatusCode)

	// Дубликат активного отклика
	res, _ = ts.SendRequest(t, "POST", "/api/v1/applications/roles/"+roleID, actorToken, applicationBody())
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// Отклик на закрытую роль
	closedID := createRoleViaAPI(t, ts, directorToken, "Closed Role")
	res, _ = ts.SendRequest(t, "PUT", "/api/v1/roles/"+closedID+"/close", directorToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, "POST", "/api/v1/applications/roles/"+closedID, actorToken, applicationBody())
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}
