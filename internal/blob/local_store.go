package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LocalStore roots every (bucket, key) pair under a filesystem directory.
// Used by tests and single-machine deployments.
type LocalStore struct {
	root string
}

// NewLocalStore returns a LocalStore rooted at root.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (l *LocalStore) path(bucket, key string) (string, error) {
	if strings.HasPrefix(key, "/") {
		return "", errors.New("blob key must not begin with /")
	}
	return filepath.Join(l.root, bucket, filepath.FromSlash(key)), nil
}

// Put writes data, creating parent directories as needed.
func (l *LocalStore) Put(ctx context.Context, bucket, key string, data []byte) error {
	path, err := l.path(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating blob parent directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating blob file")
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return errors.Wrap(err, "writing blob file")
	}
	return f.Sync()
}

// Get reads the blob at (bucket, key).
func (l *LocalStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	path, err := l.path(bucket, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s/%s", bucket, key)
		}
		return nil, errors.Wrap(err, "reading blob file")
	}
	return data, nil
}

// Delete removes the blob at (bucket, key); a missing blob is not an error.
func (l *LocalStore) Delete(ctx context.Context, bucket, key string) error {
	path, err := l.path(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "deleting blob file")
	}
	return nil
}
