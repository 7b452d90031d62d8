package file_store

import (
	"context"
	"io"
	"io/ioutil"
	"sync"
)

// FakeFileStore keeps files in memory.
type FakeFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewFakeFileStore() *FakeFileStore {
	return &FakeFileStore{files: map[string][]byte{}}
}

func (s *FakeFileStore) Store(ctx context.Context, format string, r io.Reader) (key string, err error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return "", err
	}
	key = GenerateKey(format)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = b
	return key, nil
}

func (s *FakeFileStore) GetUrlFromKey(key string) string {
	return "/media/" + key
}

func (s *FakeFileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}

// Content returns the bytes stored under key.
func (s *FakeFileStore) Content(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[key]
	return b, ok
}
