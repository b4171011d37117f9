package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: dir, BaseURL: "http://localhost:5000/files/"})
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "gsc/A_B/abc-file.pdf", strings.NewReader("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/files/gsc/A_B/abc-file.pdf", url)

	data, err := os.ReadFile(filepath.Join(dir, "gsc", "A_B", "abc-file.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, s.Delete(context.Background(), "gsc/A_B/abc-file.pdf"))
	_, err = os.Stat(filepath.Join(dir, "gsc", "A_B", "abc-file.pdf"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(context.Background(), "gsc/A_B/abc-file.pdf"))
}

func TestLocalStorage_KeysStayInsideBasePath(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: dir})
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../../escape.pdf", strings.NewReader("x"), "application/pdf")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "escape.pdf"))
	assert.NoError(t, err)
	assert.Equal(t, "/files/a/b.pdf", s.URL("a/b.pdf"))
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}

func TestNewS3Storage_URLFormat(t *testing.T) {
	s, err := NewS3Storage(Config{Bucket: "tdc-docs", Region: "ap-south-1", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "https://tdc-docs.s3.ap-south-1.amazonaws.com/gsc/x.pdf", s.URL("gsc/x.pdf"))

	_, err = NewS3Storage(Config{Region: "ap-south-1"})
	assert.Error(t, err)
}
