package store

import (
	"context"
	"errors"
)

// Коллекции, известные приложению
const (
	CollectionRoles        = "roles"
	CollectionApplications = "applications"
)

var (
	// ErrNotFound - записи с таким id нет в коллекции
	ErrNotFound = errors.New("store: record not found")
	// ErrTxConflict - транзакция не прошла из-за конкурентной записи
	ErrTxConflict = errors.New("store: transaction conflict")
)

// Record - сырая запись стора: id плюс JSON-представление сущности.
type Record struct {
	ID   string
	Data []byte
}

// Tx - операции, доступные внутри атомарного блока Update.
type Tx interface {
	Get(collection, id string) ([]byte, error)
	List(collection string) ([]Record, error)
	Put(collection, id string, data []byte) error
	Delete(collection, id string) error
}

// Store - подключаемый persistence store. Каждая операция атомарна сама по себе;
// Update объединяет несколько операций в одну атомарную единицу (read-modify-write).
// Реализации: memory (тесты и дев), redis, postgres.
type Store interface {
	Get(ctx context.Context, collection, id string) ([]byte, error)
	List(ctx context.Context, collection string) ([]Record, error)
	Put(ctx context.Context, collection, id string, data []byte) error
	Delete(ctx context.Context, collection, id string) error

	// Update выполняет fn атомарно. Если fn возвращает ошибку, ничего не
	// записывается. Обнаруженная гонка возвращается как ErrTxConflict.
	Update(ctx context.Context, fn func(tx Tx) error) error

	Close() error
}
