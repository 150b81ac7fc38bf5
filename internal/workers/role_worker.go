package workers

import (
	"context"
	"time"

	"casthub_backend/internal/logger"
	"casthub_backend/internal/repositories"
)

type RoleWorker struct {
	roleRepo *repositories.RoleRepository
	interval time.Duration
}

func NewRoleWorker(roleRepo *repositories.RoleRepository, interval time.Duration) *RoleWorker {
	return &RoleWorker{
		roleRepo: roleRepo,
		interval: interval,
	}
}

// Start запускает фоновые задачи для ролей
func (w *RoleWorker) Start(ctx context.Context) {
	go w.autoCloseRoles(ctx)
}

// autoCloseRoles автоматически закрывает роли с прошедшим дедлайном.
// Чтения сами выводят эффективный статус, так что воркер лишь
// фиксирует его в сторе, а не обеспечивает корректность.
func (w *RoleWorker) autoCloseRoles(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Role worker stopped")
			return
		case <-ticker.C:
			closed, err := w.roleRepo.CloseExpired(ctx, time.Now())
			if err != nil {
				logger.WorkerLog("role_worker", "auto_close", err)
			} else if closed > 0 {
				logger.Info("Auto-closed expired roles", "count", closed)
			}
		}
	}
}
