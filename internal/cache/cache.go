/*
 * cache.go, part of ffinspector.
 *
 * Copyright 2026 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package cache keeps the results of expensive computations, such as energy decompositions,
//in redis or in memory, keyed by a hash of their inputs. Concurrent requests for the
//same key are computed only once.
package cache

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "ffinspect:"

//Store is a key-value store with expiration.
type Store interface {
	//Get returns the value for key, and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

//Redis is a Store backed by a redis server.
type Redis struct {
	rdb *redis.Client
}

//NewRedis connects to the redis server at addr and checks the connection.
func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("cache: redis ping to %s failed: %w", addr, err)
	}
	return &Redis{rdb: rdb}, nil
}

func (R *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := R.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (R *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return R.rdb.Set(ctx, key, value, ttl).Err()
}

func (R *Redis) Close() error { return R.rdb.Close() }

type entry struct {
	key     string
	value   []byte
	expires time.Time
}

//Memory is an in-process Store holding at most a fixed number of entries. The least
//recently used entry is evicted first.
type Memory struct {
	mu      sync.Mutex
	max     int
	order   *list.List
	entries map[string]*list.Element
	now     func() time.Time
}

//NewMemory returns a Memory store for up to max entries.
func NewMemory(max int) *Memory {
	if max < 1 {
		max = 1
	}
	return &Memory{max: max, order: list.New(), entries: make(map[string]*list.Element), now: time.Now}
}

func (M *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	M.mu.Lock()
	defer M.mu.Unlock()
	el, ok := M.entries[key]
	if !ok {
		return nil, false, nil
	}
	e := el.Value.(*entry)
	if !e.expires.IsZero() && M.now().After(e.expires) {
		M.order.Remove(el)
		delete(M.entries, key)
		return nil, false, nil
	}
	M.order.MoveToFront(el)
	return e.value, true, nil
}

func (M *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	M.mu.Lock()
	defer M.mu.Unlock()
	var expires time.Time
	if ttl > 0 {
		expires = M.now().Add(ttl)
	}
	if el, ok := M.entries[key]; ok {
		el.Value = &entry{key, value, expires}
		M.order.MoveToFront(el)
		return nil
	}
	M.entries[key] = M.order.PushFront(&entry{key, value, expires})
	for M.order.Len() > M.max {
		last := M.order.Back()
		M.order.Remove(last)
		delete(M.entries, last.Value.(*entry).key)
	}
	return nil
}

//Len returns the number of entries, expired or not, in the store.
func (M *Memory) Len() int {
	M.mu.Lock()
	defer M.mu.Unlock()
	return M.order.Len()
}

func (M *Memory) Close() error { return nil }

//Cache stores JSON-encoded results in a Store.
type Cache struct {
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
	//OnHit and OnMiss, if not nil, are called on each lookup.
	OnHit  func()
	OnMiss func()
}

//New returns a cache over store. Entries expire after ttl; zero means never.
func New(store Store, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, ttl: ttl, logger: logger.Named("cache")}
}

//Key returns a cache key for the given inputs.
func Key(kind string, parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:", len(p))
		h.Write(p)
	}
	return fmt.Sprintf("%s%s:%x", keyPrefix, kind, h.Sum(nil)[:16])
}

//GetOrCompute decodes into out the value stored under key. If there is none, it calls
//compute, stores its result and decodes it into out. It returns whether the value came
//from the store. Store failures are logged and otherwise ignored.
func (C *Cache) GetOrCompute(ctx context.Context, key string, out interface{}, compute func() (interface{}, error)) (bool, error) {
	if C.lookup(ctx, key, out) {
		return true, nil
	}
	v, err, _ := C.group.Do(key, func() (interface{}, error) {
		val, err := compute()
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("cache: encoding result: %w", err)
		}
		if err := C.store.Set(ctx, key, b, C.ttl); err != nil {
			C.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
		return b, nil
	})
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(v.([]byte), out); err != nil {
		return false, fmt.Errorf("cache: decoding result: %w", err)
	}
	return false, nil
}

func (C *Cache) lookup(ctx context.Context, key string, out interface{}) bool {
	b, ok, err := C.store.Get(ctx, key)
	if err != nil {
		C.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	if ok && err == nil {
		if err = json.Unmarshal(b, out); err == nil {
			if C.OnHit != nil {
				C.OnHit()
			}
			C.logger.Debug("cache hit", zap.String("key", key))
			return true
		}
		C.logger.Warn("cache entry undecodable", zap.String("key", key), zap.Error(err))
	}
	if C.OnMiss != nil {
		C.OnMiss()
	}
	return false
}

//Close closes the underlying store.
func (C *Cache) Close() error { return C.store.Close() }
