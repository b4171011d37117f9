package attachments

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if m.failOn != "" && strings.Contains(key, m.failOn) {
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

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStore) URL(key string) string {
	return "https://bucket.example/" + key
}

func TestBatch_UploadKeyFormat(t *testing.T) {
	store := newMemStore()
	b := NewBatch(store, "gsc/A_B")

	url, err := b.Upload(context.Background(), File{Field: "aadhaar_upload", Filename: "my aadhaar.pdf", Data: []byte("%PDF")})
	require.NoError(t, err)

	keys := b.Keys()
	require.Len(t, keys, 1)
	assert.Regexp(t, `^gsc/A_B/[0-9a-f-]{36}-my_aadhaar\.pdf$`, keys[0])
	assert.Equal(t, "https://bucket.example/"+keys[0], url)
}

func TestBatch_UploadSlotsRollsBackOnFailure(t *testing.T) {
	store := newMemStore()
	store.failOn = "fourth.pdf"

	files := map[string]File{}
	names := []string{"first.pdf", "second.pdf", "third.pdf", "fourth.pdf", "fifth.pdf", "sixth.pdf"}
	for i, s := range gscSlots {
		files[s.Name] = File{Field: s.Name, Filename: names[i], Data: []byte("%PDF")}
	}

	b := NewBatch(store, "gsc/A_B")
	urls, err := b.UploadSlots(context.Background(), gscSlots, files)
	require.Error(t, err)
	assert.Nil(t, urls)
	assert.Empty(t, store.objects, "uploads before the failure are removed")
	assert.Empty(t, b.Keys())
}

func TestBatch_UploadSlotsSkipsAbsentSlots(t *testing.T) {
	store := newMemStore()
	b := NewBatch(store, "noc/X")

	urls, err := b.UploadSlots(context.Background(), gscSlots, map[string]File{
		"aadhaar_upload": {Field: "aadhaar_upload", Filename: "a.pdf", Data: []byte("%PDF")},
	})
	require.NoError(t, err)
	assert.Len(t, urls, 1)
	assert.Contains(t, urls, "aadhaar_upload")
	assert.Len(t, store.objects, 1)

	b.Rollback(context.Background())
	assert.Empty(t, store.objects)
}
