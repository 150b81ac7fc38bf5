package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"casthub_backend/internal/app"
	"casthub_backend/internal/auth"
	"casthub_backend/internal/config"
	"casthub_backend/internal/models"
	"casthub_backend/internal/store"

	"github.com/gin-gonic/gin"
)

// TestServer - полный HTTP-стек поверх in-memory хранилища.
// Каждый тест поднимает свой экземпляр, состояние не разделяется.
type TestServer struct {
	Server *httptest.Server
	Store  store.Store
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	auth.InitJWT("test_secret_key_12345", 24)

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Store.Backend = "memory"

	st := store.NewMemoryStore()
	router := app.SetupRouter(cfg, st)

	return &TestServer{
		Server: httptest.NewServer(router),
		Store:  st,
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.Store.Close()
}

// MintDirectorToken выписывает валидный JWT режиссера
func MintDirectorToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, models.UserRoleDirector)
	if err != nil {
		t.Fatalf("Не удалось выписать токен режиссера: %v", err)
	}
	return token
}

// MintActorToken выписывает валидный JWT актера
func MintActorToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, models.UserRoleActor)
	if err != nil {
		t.Fatalf("Не удалось выписать токен актера: %v", err)
	}
	return token
}

// SendRequest отправляет JSON-запрос на тестовый сервер
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	url := ts.Server.URL + path

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBodyBytes)
}
