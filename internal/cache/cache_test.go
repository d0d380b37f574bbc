/*
 * cache_test.go, part of ffinspector.
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

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type result struct {
	Energy float64 `json:"energy"`
}

func TestMemory(Te *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }
	require.NoError(Te, m.Set(ctx, "a", []byte("1"), 0))
	require.NoError(Te, m.Set(ctx, "b", []byte("2"), time.Minute))
	_, ok, _ := m.Get(ctx, "a") //a becomes the most recently used
	assert.True(Te, ok)
	require.NoError(Te, m.Set(ctx, "c", []byte("3"), 0))
	assert.Equal(Te, 2, m.Len())
	_, ok, _ = m.Get(ctx, "b")
	assert.False(Te, ok)

	require.NoError(Te, m.Set(ctx, "d", []byte("4"), time.Minute))
	now = now.Add(2 * time.Minute)
	_, ok, _ = m.Get(ctx, "d")
	assert.False(Te, ok)
	v, ok, err := m.Get(ctx, "c")
	require.NoError(Te, err)
	assert.True(Te, ok)
	assert.Equal(Te, []byte("3"), v)
}

func TestGetOrCompute(Te *testing.T) {
	ctx := context.Background()
	c := New(NewMemory(10), time.Hour, zaptest.NewLogger(Te))
	var hits, misses, calls int32
	c.OnHit = func() { atomic.AddInt32(&hits, 1) }
	c.OnMiss = func() { atomic.AddInt32(&misses, 1) }
	compute := func() (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return result{-12.5}, nil
	}
	key := Key("energy", []byte("mol"), []byte("ff"))
	var r result
	hit, err := c.GetOrCompute(ctx, key, &r, compute)
	require.NoError(Te, err)
	assert.False(Te, hit)
	assert.Equal(Te, -12.5, r.Energy)

	var r2 result
	hit, err = c.GetOrCompute(ctx, key, &r2, compute)
	require.NoError(Te, err)
	assert.True(Te, hit)
	assert.Equal(Te, r, r2)
	assert.Equal(Te, int32(1), calls)
	assert.Equal(Te, int32(1), hits)
	assert.Equal(Te, int32(1), misses)

	_, err = c.GetOrCompute(ctx, Key("energy", []byte("other")), &r, func() (interface{}, error) {
		return nil, errors.New("boom")
	})
	assert.EqualError(Te, err, "boom")
}

func TestConcurrentCompute(Te *testing.T) {
	c := New(NewMemory(10), 0, nil)
	var calls int32
	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var r result
			_, err := c.GetOrCompute(context.Background(), "k", &r, func() (interface{}, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return result{1}, nil
			})
			assert.NoError(Te, err)
			assert.Equal(Te, 1.0, r.Energy)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(Te, int32(1), atomic.LoadInt32(&calls))
}

func TestKey(Te *testing.T) {
	assert.Equal(Te, Key("energy", []byte("ab"), []byte("c")), Key("energy", []byte("ab"), []byte("c")))
	assert.NotEqual(Te, Key("energy", []byte("ab"), []byte("c")), Key("energy", []byte("a"), []byte("bc")))
	assert.NotEqual(Te, Key("energy", []byte("x")), Key("minimize", []byte("x")))
}

func TestRedisUnreachable(Te *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedis(ctx, "127.0.0.1:1", "", 0)
	assert.Error(Te, err)
}
