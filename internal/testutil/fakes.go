package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"tdc_backend/internal/attachments"
	"tdc_backend/internal/services/gateway"
)

// MemStorage is an in-memory storage.Storage. Put fails for keys containing FailOn.
type MemStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	FailOn  string
}

func NewMemStorage() *MemStorage {
	return &MemStorage{objects: map[string][]byte{}}
}

func (m *MemStorage) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if m.FailOn != "" && strings.Contains(key, m.FailOn) {
		return "", errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return m.URL(key), nil
}

func (m *MemStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemStorage) URL(key string) string {
	return "https://bucket.example/" + key
}

// Keys lists stored keys in sorted order.
func (m *MemStorage) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FakeGateway hands out sequential order ids and records every request.
type FakeGateway struct {
	mu       sync.Mutex
	Requests []gateway.OrderRequest
	Err      error
}

func (g *FakeGateway) KeyID() string {
	return "rzp_test_key"
}

func (g *FakeGateway) CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	g.Requests = append(g.Requests, req)
	return &gateway.Order{
		ID:       fmt.Sprintf("order_test_%d", len(g.Requests)),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

// PDFs builds an upload for each named slot.
func PDFs(slots ...string) map[string]attachments.File {
	files := make(map[string]attachments.File, len(slots))
	for _, s := range slots {
		files[s] = attachments.File{
			Field:       s,
			Filename:    s + ".pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.4 " + s),
		}
	}
	return files
}
