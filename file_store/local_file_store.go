package file_store

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// LocalFileStore writes media under a root directory which the api server
// serves at urlPrefix.
type LocalFileStore struct {
	root      string
	urlPrefix string
}

func NewLocalFileStore(root string, urlPrefix string) (*LocalFileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrap(err, "fail to create media root")
	}
	return &LocalFileStore{root: root, urlPrefix: withTrailingSlash(urlPrefix)}, nil
}

func (s *LocalFileStore) Root() string {
	return s.root
}

func (s *LocalFileStore) Store(ctx context.Context, format string, r io.Reader) (key string, err error) {
	key = GenerateKey(format)
	fullPath := s.pathOf(key)
	if err = os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", errors.Wrap(err, "fail to create media dir")
	}
	f, err := os.Create(fullPath)
	if err != nil {
		return "", errors.Wrap(err, "fail to create media file")
	}
	_, err = io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(fullPath)
		return "", errors.Wrap(err, "fail to write media file")
	}
	return key, nil
}

func (s *LocalFileStore) GetUrlFromKey(key string) string {
	return s.urlPrefix + key
}

func (s *LocalFileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.pathOf(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "fail to delete media file")
	}
	return nil
}

func (s *LocalFileStore) pathOf(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}
