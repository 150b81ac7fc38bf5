package app

import (
	"context"
	"fmt"
	"time"

	"casthub_backend/internal/auth"
	"casthub_backend/internal/config"
	"casthub_backend/internal/handlers"
	"casthub_backend/internal/logger"
	"casthub_backend/internal/middleware"
	"casthub_backend/internal/repositories"
	"casthub_backend/internal/routes"
	"casthub_backend/internal/services"
	"casthub_backend/internal/store"
	"casthub_backend/internal/validator"
	"casthub_backend/internal/workers"

	"github.com/gin-gonic/gin"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	auth.InitJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	st, err := NewStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize store", "backend", cfg.Store.Backend, "error", err)
	}
	defer st.Close()
	logger.Info("Store initialized", "backend", cfg.Store.Backend)

	ginRouter := SetupRouter(cfg, st)

	// Фоновое закрытие просроченных ролей
	roleWorker := workers.NewRoleWorker(
		repositories.NewRoleRepository(st),
		time.Duration(cfg.Worker.CloseInterval)*time.Minute,
	)
	roleWorker.Start(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// NewStore выбирает бэкенд persistence store по конфигурации.
func NewStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "redis":
		return store.NewRedisStore(cfg.Store.RedisAddr, cfg.Store.RedisDB)
	case "postgres":
		return store.NewPostgresStore(cfg.Store.PostgresDSN)
	default:
		return store.NewMemoryStore(), nil
	}
}

// SetupRouter собирает сервисы, хэндлеры и Gin-роутер.
// Вынесен отдельно, чтобы тесты могли поднять httptest-сервер.
func SetupRouter(cfg *config.Config, st store.Store) *gin.Engine {
	// 1. Инициализируем сервисы
	serviceContainer := services.NewServiceContainer(st)

	// 2. Инициализируем хэндлеры
	appHandlers := handlers.NewAppHandlers(serviceContainer, validator.New())

	// 3. Инициализируем Gin
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestLogger())

	// 4. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}
