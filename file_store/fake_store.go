package file_store

import (
	"io"
	"io/ioutil"
	"sync"
)

// FakeFileStore records uploads in memory for tests.
type FakeFileStore struct {
	m     sync.Mutex
	files map[string][]byte
}

func NewFakeFileStore() *FakeFileStore {
	return &FakeFileStore{files: make(map[string][]byte)}
}

func (s *FakeFileStore) Store(body io.Reader, fileName string) (string, error) {
	data, err := ioutil.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.m.Lock()
	defer s.m.Unlock()
	s.files[fileName] = data
	return fileName, nil
}

func (s *FakeFileStore) GetUrlFromKey(key string) string {
	return "https://fake.store/" + key
}

func (s *FakeFileStore) CleanUp() {
	s.m.Lock()
	defer s.m.Unlock()
	s.files = make(map[string][]byte)
}

// Stored returns the bytes recorded under key, nil when absent.
func (s *FakeFileStore) Stored(key string) []byte {
	s.m.Lock()
	defer s.m.Unlock()
	return s.files[key]
}
