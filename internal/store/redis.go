package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"casthub_backend/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// maxTxRetries - сколько раз Update повторяет оптимистичную транзакцию
// при срабатывании WATCH, прежде чем вернуть ErrTxConflict.
const maxTxRetries = 3

// RedisStore хранит каждую коллекцию как redis hash (поле = id записи).
// Update реализован через WATCH/MULTI: чтения идут под наблюдением,
// записи копятся и применяются одним TxPipelined.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client, prefix: "casthub:"}, nil
}

func (s *RedisStore) key(collection string) string {
	return s.prefix + collection
}

func (s *RedisStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	data, err := s.client.HGet(ctx, s.key(collection), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) List(ctx context.Context, collection string) ([]Record, error) {
	raw, err := s.client.HGetAll(ctx, s.key(collection)).Result()
	if err != nil {
		return nil, err
	}
	return recordsFromHash(raw, nil), nil
}

func (s *RedisStore) Put(ctx context.Context, collection, id string, data []byte) error {
	return s.client.HSet(ctx, s.key(collection), id, data).Err()
}

func (s *RedisStore) Delete(ctx context.Context, collection, id string) error {
	return s.client.HDel(ctx, s.key(collection), id).Err()
}

func (s *RedisStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	watched := []string{s.key(CollectionRoles), s.key(CollectionApplications)}
	start := time.Now()

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
			stx := &redisTx{
				ctx:    ctx,
				tx:     rtx,
				store:  s,
				staged: map[string]map[string][]byte{},
			}
			if err := fn(stx); err != nil {
				return err
			}
			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				stx.flush(pipe)
				return nil
			})
			return err
		}, watched...)

		if errors.Is(err, redis.TxFailedErr) {
			continue // ключ изменился под WATCH, пробуем заново
		}
		logger.StoreLog("redis", "update", time.Since(start), err)
		return err
	}
	logger.StoreLog("redis", "update", time.Since(start), ErrTxConflict)
	return ErrTxConflict
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// redisTx читает через наблюдаемое соединение и накапливает записи.
// staged: значение nil означает удаление поля.
type redisTx struct {
	ctx    context.Context
	tx     *redis.Tx
	store  *RedisStore
	staged map[string]map[string][]byte
}

func (t *redisTx) Get(collection, id string) ([]byte, error) {
	if coll, ok := t.staged[collection]; ok {
		if data, ok := coll[id]; ok {
			if data == nil {
				return nil, ErrNotFound
			}
			return data, nil
		}
	}
	data, err := t.tx.HGet(t.ctx, t.store.key(collection), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (t *redisTx) List(collection string) ([]Record, error) {
	raw, err := t.tx.HGetAll(t.ctx, t.store.key(collection)).Result()
	if err != nil {
		return nil, err
	}
	return recordsFromHash(raw, t.staged[collection]), nil
}

func (t *redisTx) Put(collection, id string, data []byte) error {
	coll, ok := t.staged[collection]
	if !ok {
		coll = map[string][]byte{}
		t.staged[collection] = coll
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	coll[id] = stored
	return nil
}

func (t *redisTx) Delete(collection, id string) error {
	coll, ok := t.staged[collection]
	if !ok {
		coll = map[string][]byte{}
		t.staged[collection] = coll
	}
	coll[id] = nil
	return nil
}

func (t *redisTx) flush(pipe redis.Pipeliner) {
	for collection, coll := range t.staged {
		key := t.store.key(collection)
		for id, data := range coll {
			if data == nil {
				pipe.HDel(t.ctx, key, id)
			} else {
				pipe.HSet(t.ctx, key, id, data)
			}
		}
	}
}

// recordsFromHash собирает записи из HGETALL с учетом staged-оверлея.
func recordsFromHash(raw map[string]string, staged map[string][]byte) []Record {
	records := make([]Record, 0, len(raw))
	for id, data := range raw {
		if staged != nil {
			if overlay, ok := staged[id]; ok {
				if overlay == nil {
					continue // удалено в этой транзакции
				}
				records = append(records, Record{ID: id, Data: overlay})
				continue
			}
		}
		records = append(records, Record{ID: id, Data: []byte(data)})
	}
	for id, data := range staged {
		if _, exists := raw[id]; !exists && data != nil {
			records = append(records, Record{ID: id, Data: data})
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}
