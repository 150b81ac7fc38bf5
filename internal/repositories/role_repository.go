package repositories

import (
	"context"
	"encoding/json"
	"time"

	"casthub_backend/internal/models"
	"casthub_backend/internal/query"
	"casthub_backend/internal/store"
)

// RoleQuery - параметры выборки ролей; фильтры пустые = выключены.
type RoleQuery struct {
	DirectorID string
	Status     string // "open", "closed" или "all"
	Genre      string
	Search     string // подстрока в title/description
	Sort       query.Sort
	Page       int
	Limit      int
}

type RoleRepository struct {
	store store.Store
}

func NewRoleRepository(s store.Store) *RoleRepository {
	return &RoleRepository{store: s}
}

func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	data, err := json.Marshal(role)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, store.CollectionRoles, role.ID, data)
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*models.Role, error) {
	data, err := r.store.Get(ctx, store.CollectionRoles, id)
	if err != nil {
		return nil, err
	}
	return decodeRole(data)
}

// List возвращает роли по фильтрам, отсортированные и при
// необходимости постранично. Статус сверяется с эффективным
// (роль с прошедшим дедлайном отдается как closed).
func (r *RoleRepository) List(ctx context.Context, q RoleQuery) ([]*models.Role, error) {
	records, err := r.store.List(ctx, store.CollectionRoles)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	roles := make([]*models.Role, 0, len(records))
	for _, rec := range records {
		role, err := decodeRole(rec.Data)
		if err != nil {
			return nil, err
		}
		role.Status = role.EffectiveStatus(now)

		if q.DirectorID != "" && role.DirectorID != q.DirectorID {
			continue
		}
		if !query.MatchesStatus(string(role.Status), q.Status) {
			continue
		}
		if q.Genre != "" && role.Genre != q.Genre {
			continue
		}
		if !query.MatchesText(q.Search, role.Title, role.Description) {
			continue
		}
		roles = append(roles, role)
	}

	query.SortRoles(roles, q.Sort)

	start, end := query.PageBounds(len(roles), q.Page, q.Limit)
	return roles[start:end], nil
}

// Update выполняет атомарный read-modify-write над ролью.
func (r *RoleRepository) Update(ctx context.Context, id string, mutate func(role *models.Role) error) error {
	return r.store.Update(ctx, func(tx store.Tx) error {
		role, err := GetRoleTx(tx, id)
		if err != nil {
			return err
		}
		if err := mutate(role); err != nil {
			return err
		}
		return PutRoleTx(tx, role)
	})
}

// CloseExpired переводит в closed все открытые роли с прошедшим дедлайном
// и возвращает, сколько ролей закрыто. Выполняется одной транзакцией.
func (r *RoleRepository) CloseExpired(ctx context.Context, now time.Time) (int, error) {
	closed := 0
	err := r.store.Update(ctx, func(tx store.Tx) error {
		closed = 0
		records, err := tx.List(store.CollectionRoles)
		if err != nil {
			return err
		}
		for _, rec := range records {
			role, err := decodeRole(rec.Data)
			if err != nil {
				return err
			}
			if role.Status != models.RoleStatusOpen || role.Deadline.IsZero() || !role.Deadline.Before(now) {
				continue
			}
			role.Status = models.RoleStatusClosed
			if err := PutRoleTx(tx, role); err != nil {
				return err
			}
			closed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return closed, nil
}

func (r *RoleRepository) Store() store.Store {
	return r.store
}

// --- операции внутри транзакций стора ---

func GetRoleTx(tx store.Tx, id string) (*models.Role, error) {
	data, err := tx.Get(store.CollectionRoles, id)
	if err != nil {
		return nil, err
	}
	return decodeRole(data)
}

func PutRoleTx(tx store.Tx, role *models.Role) error {
	data, err := json.Marshal(role)
	if err != nil {
		return err
	}
	return tx.Put(store.CollectionRoles, role.ID, data)
}

func DeleteRoleTx(tx store.Tx, id string) error {
	return tx.Delete(store.CollectionRoles, id)
}

func decodeRole(data []byte) (*models.Role, error) {
	var role models.Role
	if err := json.Unmarshal(data, &role); err != nil {
		return nil, err
	}
	return &role, nil
}
