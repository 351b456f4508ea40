package shopkit

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/goliatone/go-errors"
)

// watchList fan-outs change notifications to registered observers. The
// callbacks carry no payload so observers always re-read through their store.
type watchList struct {
	mu       sync.Mutex
	nextID   int
	watchers map[int]func()
}

func (w *watchList) add(fn func()) (cancel func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watchers == nil {
		w.watchers = make(map[int]func())
	}
	id := w.nextID
	w.nextID++
	w.watchers[id] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.watchers, id)
	}
}

func (w *watchList) notify() {
	w.mu.Lock()
	fns := make([]func(), 0, len(w.watchers))
	for _, fn := range w.watchers {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// MemoryStorage keeps the payload in process memory. It is the test backend
// and doubles as the short-lived layer when no durable backend is configured.
type MemoryStorage struct {
	mu      sync.RWMutex
	payload []byte
	watch   watchList
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Load(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.payload == nil {
		return nil, nil
	}
	out := make([]byte, len(s.payload))
	copy(out, s.payload)
	return out, nil
}

func (s *MemoryStorage) Store(ctx context.Context, payload []byte) error {
	s.mu.Lock()
	s.payload = make([]byte, len(payload))
	copy(s.payload, payload)
	s.mu.Unlock()

	s.watch.notify()
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context) error {
	s.mu.Lock()
	s.payload = nil
	s.mu.Unlock()

	s.watch.notify()
	return nil
}

func (s *MemoryStorage) Watch(fn func()) (cancel func()) {
	return s.watch.add(fn)
}

// FileStorage persists the payload as JSON in a single file named after the
// session key. Writes are atomic (temp file + rename) so a crashed writer can
// never leave a half-written session behind.
type FileStorage struct {
	path  string
	mu    sync.Mutex
	watch watchList
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage stores the payload under dir/<key>.json.
func NewFileStorage(dir, key string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to create session directory")
	}
	return &FileStorage{path: filepath.Join(dir, key+".json")}, nil
}

func (s *FileStorage) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read session file")
	}
	return data, nil
}

func (s *FileStorage) Store(ctx context.Context, payload []byte) error {
	s.mu.Lock()
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		s.mu.Unlock()
		return errors.Wrap(err, errors.CategoryOperation, "failed to write session file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.mu.Unlock()
		return errors.Wrap(err, errors.CategoryOperation, "failed to replace session file")
	}
	s.mu.Unlock()

	s.watch.notify()
	return nil
}

func (s *FileStorage) Delete(ctx context.Context) error {
	s.mu.Lock()
	err := os.Remove(s.path)
	s.mu.Unlock()

	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.CategoryOperation, "failed to remove session file")
	}

	s.watch.notify()
	return nil
}

func (s *FileStorage) Watch(fn func()) (cancel func()) {
	return s.watch.add(fn)
}
