package session

import (
	"context"
	"fmt"
	"time"

	"guidewizard/models"

	"github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process memory with a sliding TTL.
// Sessions are stored encoded so callers never share a live pointer.
type MemoryStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemoryStore returns a store whose entries expire after ttl without activity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (s *MemoryStore) Create(ctx context.Context, sess *models.WizardSession) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	return s.cache.Add(key(sess.ID), data, s.ttl)
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.WizardSession, error) {
	v, ok := s.cache.Get(key(id))
	if !ok {
		return nil, ErrNotFound
	}
	return decode(v.([]byte))
}

func (s *MemoryStore) Save(ctx context.Context, sess *models.WizardSession) error {
	if _, ok := s.cache.Get(key(sess.ID)); !ok {
		return ErrNotFound
	}
	sess.UpdatedAt = time.Now()
	data, err := encode(sess)
	if err != nil {
		return err
	}
	s.cache.Set(key(sess.ID), data, s.ttl)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.cache.Delete(key(id))
	return nil
}

const keyPrefix = "wizardSession:"

func key(id string) string {
	return keyPrefix + id
}

func encode(sess *models.WizardSession) ([]byte, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wizard session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*models.WizardSession, error) {
	var sess models.WizardSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wizard session: %w", err)
	}
	return &sess, nil
}
