package repositories

import (
	"context"
	"encoding/json"

	"casthub_backend/internal/models"
	"casthub_backend/internal/store"
)

type ApplicationRepository struct {
	store store.Store
}

func NewApplicationRepository(s store.Store) *ApplicationRepository {
	return &ApplicationRepository{store: s}
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	data, err := r.store.Get(ctx, store.CollectionApplications, id)
	if err != nil {
		return nil, err
	}
	return decodeApplication(data)
}

func (r *ApplicationRepository) ListAll(ctx context.Context) ([]*models.Application, error) {
	records, err := r.store.List(ctx, store.CollectionApplications)
	if err != nil {
		return nil, err
	}
	apps := make([]*models.Application, 0, len(records))
	for _, rec := range records {
		app, err := decodeApplication(rec.Data)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func (r *ApplicationRepository) ListByActor(ctx context.Context, actorID string) ([]*models.Application, error) {
	apps, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := apps[:0]
	for _, app := range apps {
		if app.ActorID == actorID {
			filtered = append(filtered, app)
		}
	}
	return filtered, nil
}

func (r *ApplicationRepository) ListByRole(ctx context.Context, roleID string) ([]*models.Application, error) {
	apps, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := apps[:0]
	for _, app := range apps {
		if app.RoleID == roleID {
			filtered = append(filtered, app)
		}
	}
	return filtered, nil
}

func (r *ApplicationRepository) Store() store.Store {
	return r.store
}

// --- операции внутри транзакций стора ---

func GetApplicationTx(tx store.Tx, id string) (*models.Application, error) {
	data, err := tx.Get(store.CollectionApplications, id)
	if err != nil {
		return nil, err
	}
	return decodeApplication(data)
}

func PutApplicationTx(tx store.Tx, app *models.Application) error {
	data, err := json.Marshal(app)
	if err != nil {
		return err
	}
	return tx.Put(store.CollectionApplications, app.ID, data)
}

func DeleteApplicationTx(tx store.Tx, id string) error {
	return tx.Delete(store.CollectionApplications, id)
}

func ListApplicationsTx(tx store.Tx) ([]*models.Application, error) {
	records, err := tx.List(store.CollectionApplications)
	if err != nil {
		return nil, err
	}
	apps := make([]*models.Application, 0, len(records))
	for _, rec := range records {
		app, err := decodeApplication(rec.Data)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func decodeApplication(data []byte) (*models.Application, error) {
	var app models.Application
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, err
	}
	return &app, nil
}
