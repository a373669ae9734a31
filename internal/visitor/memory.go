package visitor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps visitors in process memory. Records are stored encoded so
// callers never share a *Visitor.
type MemoryStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemoryStore expires visitors after ttl without a Save.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(ttl, ttl/2+time.Minute), ttl: ttl}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Visitor, error) {
	raw, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	var v Visitor
	if err := json.Unmarshal(raw.([]byte), &v); err != nil {
		return nil, fmt.Errorf("decode visitor %s: %w", id, err)
	}
	return &v, nil
}

func (s *MemoryStore) Save(_ context.Context, v *Visitor) error {
	v.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode visitor %s: %w", v.ID, err)
	}
	s.cache.Set(v.ID, raw, s.ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// Len is the number of unexpired visitors.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
