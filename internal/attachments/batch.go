package attachments

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"tdc_backend/internal/logger"
	"tdc_backend/internal/storage"

	"github.com/google/uuid"
)

// Batch uploads the documents of a single request and can undo them all.
type Batch struct {
	store  storage.Storage
	folder string
	keys   []string
}

func NewBatch(store storage.Storage, folder string) *Batch {
	return &Batch{store: store, folder: folder}
}

// Upload stores f under <folder>/<uuid>-<name> and returns its URL.
func (b *Batch) Upload(ctx context.Context, f File) (string, error) {
	key := path.Join(b.folder, uuid.NewString()+"-"+SanitizeFilename(f.Filename))

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}

	url, err := b.store.Put(ctx, key, bytes.NewReader(f.Data), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", f.Field, err)
	}
	b.keys = append(b.keys, key)
	return url, nil
}

// UploadSlots uploads the files present for slots, in slot order. On the
// first failure everything already stored by the batch is removed.
func (b *Batch) UploadSlots(ctx context.Context, slots []Slot, files map[string]File) (map[string]string, error) {
	urls := make(map[string]string, len(files))
	for _, s := range slots {
		f, ok := files[s.Name]
		if !ok {
			continue
		}
		url, err := b.Upload(ctx, f)
		if err != nil {
			b.Rollback(ctx)
			return nil, err
		}
		urls[s.Name] = url
	}
	return urls, nil
}

// Keys returns the keys stored so far.
func (b *Batch) Keys() []string {
	return append([]string(nil), b.keys...)
}

// Rollback deletes every stored key. Failures are logged, not returned.
func (b *Batch) Rollback(ctx context.Context) {
	// the request context may already be cancelled
	ctx = context.WithoutCancel(ctx)
	for _, key := range b.keys {
		if err := b.store.Delete(ctx, key); err != nil {
			logger.CtxWithError(ctx, "failed to remove orphaned upload", err, "key", key)
		}
	}
	b.keys = nil
}
