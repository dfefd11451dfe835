package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemStore 内存实现，测试和本地开发用
type MemStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte

	// FailReads / FailWrites 用于在测试中模拟存储故障
	FailReads  bool
	FailWrites bool
}

func NewMemStore() *MemStore {
	return &MemStore{collections: make(map[string]map[string][]byte)}
}

func (s *MemStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailReads {
		return fmt.Errorf("%w: simulated read failure", ErrStore)
	}

	raw, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (s *MemStore) Set(ctx context.Context, collection, id string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return fmt.Errorf("%w: simulated write failure", ErrStore)
	}

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string][]byte)
	}
	s.collections[collection][id] = raw
	return nil
}

func (s *MemStore) Update(ctx context.Context, collection, id string, partial map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return fmt.Errorf("%w: simulated write failure", ErrStore)
	}

	raw, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for k, v := range partial {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.collections[collection][id] = merged
	return nil
}

func (s *MemStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return fmt.Errorf("%w: simulated write failure", ErrStore)
	}

	delete(s.collections[collection], id)
	return nil
}

func (s *MemStore) Add(ctx context.Context, collection string, data interface{}) (string, error) {
	id := uuid.New().String()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MemStore) Query(ctx context.Context, collection string, filters []Filter, orderBy *Order, out interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailReads {
		return fmt.Errorf("%w: simulated read failure", ErrStore)
	}

	type entry struct {
		id  string
		doc map[string]interface{}
		raw []byte
	}

	var matched []entry
	for id, raw := range s.collections[collection] {
		var doc map[string]interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}

		keep := true
		for _, f := range filters {
			if f.Op != "" && f.Op != "==" {
				return fmt.Errorf("%w: unsupported filter op %q", ErrStore, f.Op)
			}
			if fmt.Sprint(normalizeJSONValue(doc[f.Field])) != fmt.Sprint(f.Value) {
				keep = false
				break
			}
		}
		if keep {
			matched = append(matched, entry{id: id, doc: doc, raw: raw})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if orderBy == nil {
			return matched[i].id < matched[j].id
		}
		less := lessJSONValue(matched[i].doc[orderBy.Field], matched[j].doc[orderBy.Field])
		if orderBy.Desc {
			return !less && !equalJSONValue(matched[i].doc[orderBy.Field], matched[j].doc[orderBy.Field])
		}
		return less
	})

	docs := make([]Document, 0, len(matched))
	for _, e := range matched {
		docs = append(docs, Document{DocID: e.id, Data: e.raw})
	}
	return unmarshalDocs(docs, out)
}

func (s *MemStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return fmt.Errorf("%w: simulated write failure", ErrStore)
	}

	raw, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}

	current, _ := doc[field].(float64)
	doc[field] = current + float64(delta)

	merged, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.collections[collection][id] = merged
	return nil
}

// 数字在 encoding/json 里统一是 float64，整数打印时去掉小数部分
func normalizeJSONValue(v interface{}) interface{} {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return v
}

func lessJSONValue(a, b interface{}) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func equalJSONValue(a, b interface{}) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}
