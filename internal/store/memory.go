package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore - стор в памяти поверх map-коллекций под одним мьютексом.
// Update работает на копии состояния и подменяет его целиком при успехе,
// поэтому частично примененных транзакций не бывает.
type MemoryStore struct {
	mu    sync.RWMutex
	state map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: map[string]map[string][]byte{},
	}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getFrom(s.state, collection, id)
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listFrom(s.state, collection), nil
}

func (s *MemoryStore) Put(ctx context.Context, collection, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	putInto(s.state, collection, id, data)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if coll, ok := s.state[collection]; ok {
		delete(coll, id)
	}
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := cloneState(s.state)
	if err := fn(&memoryTx{state: staged}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// memoryTx выполняет операции прямо на подготовленной копии состояния.
type memoryTx struct {
	state map[string]map[string][]byte
}

func (tx *memoryTx) Get(collection, id string) ([]byte, error) {
	return getFrom(tx.state, collection, id)
}

func (tx *memoryTx) List(collection string) ([]Record, error) {
	return listFrom(tx.state, collection), nil
}

func (tx *memoryTx) Put(collection, id string, data []byte) error {
	putInto(tx.state, collection, id, data)
	return nil
}

func (tx *memoryTx) Delete(collection, id string) error {
	if coll, ok := tx.state[collection]; ok {
		delete(coll, id)
	}
	return nil
}

// --- helpers ---

func getFrom(state map[string]map[string][]byte, collection, id string) ([]byte, error) {
	coll, ok := state[collection]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := coll[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func listFrom(state map[string]map[string][]byte, collection string) []Record {
	coll := state[collection]
	records := make([]Record, 0, len(coll))
	for id, data := range coll {
		out := make([]byte, len(data))
		copy(out, data)
		records = append(records, Record{ID: id, Data: out})
	}
	// Детерминированный порядок; смысловую сортировку делает query engine
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

func putInto(state map[string]map[string][]byte, collection, id string, data []byte) {
	coll, ok := state[collection]
	if !ok {
		coll = map[string][]byte{}
		state[collection] = coll
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	coll[id] = stored
}

func cloneState(state map[string]map[string][]byte) map[string]map[string][]byte {
	clone := make(map[string]map[string][]byte, len(state))
	for collection, coll := range state {
		collClone := make(map[string][]byte, len(coll))
		for id, data := range coll {
			collClone[id] = data
		}
		clone[collection] = collClone
	}
	return clone
}
