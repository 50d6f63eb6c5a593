// Package cachetest cung cấp in-memory cache.Cache cho unit test.
package cachetest

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"
)

// Memory lưu value dạng JSON giống RedisCache để test bắt được lỗi serialize
type Memory struct {
	mu      sync.Mutex
	data    map[string][]byte
	GetErr  error
	SetErr  error
	DelErr  error
	Gets    int
	Sets    int
	Deletes []string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Gets++
	if m.GetErr != nil {
		return false, m.GetErr
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *Memory) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *Memory) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Deletes = append(m.Deletes, keys...)
	if m.DelErr != nil {
		return m.DelErr
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *Memory) DeletePattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.data, k)
		}
	}
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// Has kiểm tra key có tồn tại không
func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}
