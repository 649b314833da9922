package carrito

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL is how long an untouched cart survives in Redis.
const TTL = 7 * 24 * time.Hour

const redisPrefix = "carrito:"

// Store persists carts by ID. Get never fails on a missing or corrupt cart:
// it returns an empty one.
type Store interface {
	Get(ctx context.Context, id string) (*Carrito, error)
	Set(ctx context.Context, c *Carrito) error
	Delete(ctx context.Context, id string) error
}

// ── MemoryStore ───────────────────────────────────────────────────────────────

// MemoryStore keeps carts in process memory. Used by tests and when Redis is
// not configured.
type MemoryStore struct {
	mu    sync.Mutex
	datos map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{datos: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Carrito, error) {
	s.mu.Lock()
	raw, ok := s.datos[id]
	s.mu.Unlock()
	if !ok {
		return Nuevo(id), nil
	}
	return decodificar(id, raw), nil
}

func (s *MemoryStore) Set(_ context.Context, c *Carrito) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.datos[c.ID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.datos, id)
	s.mu.Unlock()
	return nil
}

// SetRaw stores raw bytes under id as-is.
func (s *MemoryStore) SetRaw(id string, raw []byte) {
	s.mu.Lock()
	s.datos[id] = raw
	s.mu.Unlock()
}

// ── RedisStore ────────────────────────────────────────────────────────────────

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Carrito, error) {
	raw, err := s.rdb.Get(ctx, redisPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Nuevo(id), nil
	}
	if err != nil {
		return nil, err
	}
	return decodificar(id, raw), nil
}

// Set saves the cart and renews its TTL.
func (s *RedisStore) Set(ctx context.Context, c *Carrito) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, redisPrefix+c.ID, raw, TTL).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, redisPrefix+id).Err()
}
