package shopkit

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// SessionRecord is the persisted session row. One row per session key; the
// admin console and storefront use distinct keys against a shared database.
type SessionRecord struct {
	bun.BaseModel `bun:"table:client_sessions,alias:cs"`
	Key           string     `bun:"key,pk" json:"key"`
	Payload       []byte     `bun:"payload,type:blob" json:"payload,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// BunStorage is the durable session layer used by long-lived deployments.
// It keeps a single keyed row and fans out in-process change notifications;
// handles sharing the same BunStorage observe each other's writes.
type BunStorage struct {
	db    *bun.DB
	key   string
	watch watchList
}

var _ Storage = (*BunStorage)(nil)

func NewBunStorage(db *bun.DB, key string) *BunStorage {
	return &BunStorage{db: db, key: key}
}

// Init creates the backing table. Call once at startup.
func (s *BunStorage) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*SessionRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to create session table")
	}
	return nil
}

func (s *BunStorage) Load(ctx context.Context) ([]byte, error) {
	record := &SessionRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("cs.key = ?", s.key).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to load session record")
	}
	return record.Payload, nil
}

func (s *BunStorage) Store(ctx context.Context, payload []byte) error {
	now := time.Now()
	record := &SessionRecord{
		Key:       s.key,
		Payload:   payload,
		UpdatedAt: &now,
	}

	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("payload = EXCLUDED.payload").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to store session record")
	}

	s.watch.notify()
	return nil
}

func (s *BunStorage) Delete(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*SessionRecord)(nil)).
		Where("key = ?", s.key).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to delete session record")
	}

	s.watch.notify()
	return nil
}

func (s *BunStorage) Watch(fn func()) (cancel func()) {
	return s.watch.add(fn)
}
