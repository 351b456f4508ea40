package shopkit

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/goliatone/go-errors"
)

// DefaultSessionKey is the name under which the identity payload is persisted.
var DefaultSessionKey = "shopkit.session"

// SessionStore is the single source of truth for "is a user logged in and who
// are they". It layers an in-memory cache over a durable Storage backend.
//
// Only the login, logout, and token-refresh flows may call Set and Clear;
// everything else reads. Stores sharing one Storage observe each other's
// writes through the storage watch, and subscribers re-read Get on every
// notification instead of trusting a payload.
type SessionStore struct {
	mu      sync.Mutex
	storage Storage
	cache   *Identity
	loaded  bool
	subs    watchList
	unwatch func()
	logger  Logger
}

func NewSessionStore(storage Storage) *SessionStore {
	s := &SessionStore{
		storage: storage,
		logger:  defLogger{},
	}
	s.unwatch = storage.Watch(s.onStorageChange)
	return s
}

func (s *SessionStore) WithLogger(logger Logger) *SessionStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Get returns the current Identity, reading the in-memory cache first and the
// durable layer second. A corrupt persisted payload is treated as absent,
// never surfaced as an error.
func (s *SessionStore) Get() (*Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.cache = s.load()
		s.loaded = true
	}

	if s.cache == nil {
		return nil, false
	}
	return s.cache, true
}

// load reads and parses the persisted payload. Caller holds s.mu.
func (s *SessionStore) load() *Identity {
	payload, err := s.storage.Load(context.Background())
	if err != nil {
		s.logger.Warn("session load failed, treating as absent", "error", err)
		return nil
	}
	if len(payload) == 0 {
		return nil
	}

	identity := &Identity{}
	if err := json.Unmarshal(payload, identity); err != nil {
		s.logger.Warn("persisted session is corrupt, treating as absent", "error", err)
		return nil
	}
	return identity
}

// Set persists the Identity to the durable layer and the in-memory cache.
// All subscribers, including stores in other contexts sharing the same
// Storage, are notified through the storage change event.
func (s *SessionStore) Set(ctx context.Context, identity *Identity) error {
	if identity == nil {
		return errors.New("identity must not be nil", errors.CategoryBadInput)
	}

	payload, err := json.Marshal(identity)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to serialize identity")
	}

	if err := s.storage.Store(ctx, payload); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache = identity
	s.loaded = true
	s.mu.Unlock()

	return nil
}

// Clear removes the Identity from every storage layer and notifies
// subscribers. Clearing an absent session is not an error.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache = nil
	s.loaded = true
	s.mu.Unlock()

	return nil
}

// Subscribe registers a change handler. Handlers receive no payload and must
// re-read Get; that keeps a slow notification from racing a newer write.
func (s *SessionStore) Subscribe(fn func()) (cancel func()) {
	return s.subs.add(fn)
}

// Close unregisters the storage watch. The store stays readable.
func (s *SessionStore) Close() {
	if s.unwatch != nil {
		s.unwatch()
		s.unwatch = nil
	}
}

func (s *SessionStore) onStorageChange() {
	s.mu.Lock()
	s.loaded = false
	s.cache = nil
	s.mu.Unlock()

	s.subs.notify()
}
