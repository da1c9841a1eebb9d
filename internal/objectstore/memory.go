package objectstore

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Memory is an in-process Store used by tests and offline dry-runs. It keeps
// object bytes in a map and serves listings in lexicographic key order, the
// same ordering S3 guarantees.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memoryObject

	// Calls counts remote-equivalent operations by name, letting tests assert
	// that no copy or delete happened during a dry-run or no-op.
	calls map[string]int
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]memoryObject), calls: make(map[string]int)}
}

// Seed places an object directly into the store without counting a call.
func (m *Memory) Seed(key, contentType string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
}

// Contains reports whether a key currently exists.
func (m *Memory) Contains(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Calls returns the number of operations recorded under name ("copy",
// "delete", "head", "put", "list").
func (m *Memory) Calls(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[name]
}

func (m *Memory) Head(ctx context.Context, key string) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["head"]++
	obj, ok := m.objects[key]
	if !ok {
		return ObjectInfo{}, fmt.Errorf("head %s: %w", key, ErrKeyNotFound)
	}
	return ObjectInfo{Key: key, Size: int64(len(obj.data)), ContentType: obj.contentType}, nil
}

func (m *Memory) Copy(ctx context.Context, src, dst, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["copy"]++
	obj, ok := m.objects[src]
	if !ok {
		return fmt.Errorf("copy %s -> %s: %w", src, dst, ErrKeyNotFound)
	}
	m.objects[dst] = memoryObject{data: append([]byte(nil), obj.data...), contentType: contentType}
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["delete"]++
	delete(m.objects, key)
	return nil
}

func (m *Memory) Put(ctx context.Context, key, contentType string, reader io.Reader, size int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["put"]++
	m.objects[key] = memoryObject{data: data, contentType: contentType}
	return nil
}

func (m *Memory) List(ctx context.Context, prefix, token string, max int) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if max <= 0 {
		return Page{}, nil
	}
	m.mu.Lock()
	m.calls["list"]++
	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		if prefix == "" || len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}
	m.mu.Unlock()
	sort.Strings(keys)

	page := Page{}
	for _, key := range keys {
		if token != "" && key <= token {
			continue
		}
		m.mu.RLock()
		obj := m.objects[key]
		m.mu.RUnlock()
		page.Objects = append(page.Objects, ObjectInfo{Key: key, Size: int64(len(obj.data)), ContentType: obj.contentType})
		if len(page.Objects) == max {
			page.NextToken = key
			break
		}
	}
	return page, nil
}

var _ Store = (*Memory)(nil)
